package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/littleRiceZhou/auto-aspen/internal/diagram"
	"github.com/littleRiceZhou/auto-aspen/internal/document"
	"github.com/littleRiceZhou/auto-aspen/internal/metrics"
	"github.com/littleRiceZhou/auto-aspen/internal/power"
	"github.com/littleRiceZhou/auto-aspen/internal/report"
	"github.com/littleRiceZhou/auto-aspen/internal/requestid"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
	"github.com/littleRiceZhou/auto-aspen/internal/storage"
)

const (
	statusOK = "ok"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Runner runs one simulation. *simulator.Session implements it.
type Runner interface {
	Run(ctx context.Context, p simulator.Parameters) (*simulator.Result, error)
}

// Options control which artifacts are produced.
type Options struct {
	// TemplatePath is the report template; empty disables the report.
	TemplatePath  string
	ConvertPDF    bool
	SofficePath   string
	Workbook      bool
	DiagramFormat string
}

func DefaultOptions() Options {
	return Options{
		SofficePath:   "soffice",
		Workbook:      true,
		DiagramFormat: "png",
	}
}

// SimulationService runs design requests: simulation, sizing and artifact
// rendering.
type SimulationService struct {
	runner   Runner
	store    storage.Store
	pipeline *power.Pipeline
	opts     Options
	validate *validator.Validate
	logger   *zap.SugaredLogger
}

func NewSimulationService(runner Runner, store storage.Store, pipeline *power.Pipeline, opts Options) *SimulationService {
	if pipeline == nil {
		pipeline = power.NewPipeline()
	}
	if opts.DiagramFormat == "" {
		opts.DiagramFormat = "png"
	}
	return &SimulationService{
		runner:   runner,
		store:    store,
		pipeline: pipeline,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   zap.S().Named("simulation_service"),
	}
}

func (s *SimulationService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			}
			return NewErrInvalidRequest(strings.Join(msgs, "; "))
		}
		return NewErrInvalidRequest(err.Error())
	}
	return nil
}

// Simulate runs the simulator for req, sizes the unit from the resulting
// shaft power and renders the artifacts. A simulator failure is reported in
// the response, not as an error; rendering failures become warnings.
func (s *SimulationService) Simulate(ctx context.Context, req SimulationRequest) (*SimulationResponse, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if err := req.Check(); err != nil {
		return nil, NewErrInvalidRequest(err.Error())
	}

	start := time.Now()
	resp := &SimulationResponse{}
	logger := s.logger.With("request_id", requestid.FromContext(ctx))

	sim, err := s.runner.Run(ctx, req.Parameters)
	metrics.ObserveSimulationDuration(time.Since(start).Seconds())
	switch {
	case err != nil:
	case sim == nil:
		err = errors.New("simulator returned no result")
	case !sim.Success:
		err = errors.New(sim.Message)
	}
	if err != nil {
		metrics.IncreaseSimulationsTotal(metrics.StatusFailed)
		failure := NewErrSimulationFailed(err)
		logger.Errorw("simulation failed", "error", err)

		resp.Message = "simulation failed"
		resp.ErrorMessage = failure.Error()
		resp.SimulationResults = sim
		resp.Duration = time.Since(start).Seconds()
		return resp, nil
	}
	resp.SimulationResults = sim

	mainPower := sim.PowerOutput
	if mainPower > 0 {
		metrics.IncreaseSimulationsTotal(metrics.StatusSuccess)
	} else {
		metrics.IncreaseSimulationsTotal(metrics.StatusFallback)
		mainPower = simulator.EstimatePower(req.Parameters)
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("simulator returned no power output, using estimated %.2f kW", mainPower))
		logger.Warnw("using estimated power", "main_power", mainPower)
	}

	in := report.Input{Parameters: req.Parameters, Simulation: sim, Design: s.pipeline.Run(mainPower)}
	metrics.ObserveDesign(in.Design.IsDualLevel, in.Design.Utility.NetPowerOutput)
	resp.PowerResults = newPowerResults(in)
	resp.CombinedResults = newCombinedResults(in)
	resp.Warnings = append(resp.Warnings, in.Design.Validation.Warnings...)

	// artifacts share one prefix per request
	prefix := time.Now().Format("20060102") + "/" + uuid.NewString()

	if url, err := s.saveDiagram(ctx, prefix, in); err != nil {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf("diagram not generated: %v", err))
		logger.Warnw("diagram failed", "error", err)
	} else {
		resp.DiagramURL = url
	}

	if s.opts.TemplatePath != "" {
		docURL, pdfURL, err := s.saveDocument(ctx, prefix, in)
		if err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("document not generated: %v", err))
			logger.Warnw("document failed", "error", err)
		}
		resp.DocumentURL, resp.PDFURL = docURL, pdfURL
	}

	if s.opts.Workbook {
		if url, err := s.saveWorkbook(ctx, prefix, in); err != nil {
			resp.Warnings = append(resp.Warnings, fmt.Sprintf("workbook not generated: %v", err))
			logger.Warnw("workbook failed", "error", err)
		} else {
			resp.WorkbookURL = url
		}
	}

	resp.Success = true
	resp.Message = "simulation and unit selection completed"
	resp.Duration = time.Since(start).Seconds()
	logger.Infow("design completed",
		"main_power", mainPower,
		"net_power", in.Design.Utility.NetPowerOutput,
		"unit", in.Design.UnitSelection.UnitSelection,
		"dual_level", in.Design.IsDualLevel,
		"duration", resp.Duration)
	return resp, nil
}

// Calculate sizes a unit for a known shaft power. Parameter overrides are
// range checked and replace the service defaults for this request only.
func (s *SimulationService) Calculate(ctx context.Context, req PowerRequest) (*PowerResults, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	if req.Parameters != nil {
		if err := req.Parameters.Check(); err != nil {
			return nil, NewErrInvalidRequest(err.Error())
		}
	}

	pipeline := s.pipeline
	var opts []power.Option
	if req.MainEngine != nil {
		opts = append(opts, power.WithMainEngineParams(*req.MainEngine))
	}
	if req.Utility != nil {
		opts = append(opts, power.WithUtilityParams(*req.Utility))
	}
	if req.Economic != nil {
		opts = append(opts, power.WithEconomicParams(*req.Economic))
	}
	if req.UnitSelection != nil {
		opts = append(opts, power.WithUnitSelectionParams(*req.UnitSelection))
	}
	if len(opts) > 0 {
		pipeline = power.NewPipeline(opts...)
	}

	in := report.Input{Parameters: simulator.DefaultParameters(), Design: pipeline.Run(req.MainPower)}
	if req.Parameters != nil {
		in.Parameters = *req.Parameters
	}
	metrics.ObserveDesign(in.Design.IsDualLevel, in.Design.Utility.NetPowerOutput)
	return newPowerResults(in), nil
}

func newPowerResults(in report.Input) *PowerResults {
	return &PowerResults{
		Success:    true,
		Selection:  report.NewSelection(in),
		Details:    report.Details(in),
		Validation: in.Design.Validation,
		Design:     in.Design,
	}
}

func newCombinedResults(in report.Input) *CombinedResults {
	overview := Overview{
		SimulatorStatus:   statusOK,
		CalculationStatus: statusOK,
		OverallStatus:     statusOK,
	}
	if in.Simulation != nil {
		overview.SimulationTime = in.Simulation.Duration.Round(time.Millisecond).String()
	}
	return &CombinedResults{
		Overview:   overview,
		Inputs:     in.Parameters,
		Simulation: in.Simulation,
		Selection:  report.NewSelection(in),
		Economics:  report.EconomicRows(in.Design.Economics),
		Validation: in.Design.Validation,
	}
}

func (s *SimulationService) saveDiagram(ctx context.Context, prefix string, in report.Input) (string, error) {
	layout := diagram.FromDesign(in.Design)
	data, err := diagram.RenderLayoutBytes(layout, s.opts.DiagramFormat)
	if err != nil {
		return "", err
	}
	name := prefix + "/layout." + strings.ToLower(s.opts.DiagramFormat)
	return s.store.Save(ctx, name, diagram.ContentType(s.opts.DiagramFormat), bytes.NewReader(data), int64(len(data)))
}

// saveDocument fills the report template and, when enabled, stores a PDF
// rendition next to it. A failed conversion keeps the docx URL.
func (s *SimulationService) saveDocument(ctx context.Context, prefix string, in report.Input) (string, string, error) {
	tpl, err := os.Open(s.opts.TemplatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", "", NewErrTemplateNotFound(s.opts.TemplatePath)
		}
		return "", "", err
	}
	defer tpl.Close()

	var buf bytes.Buffer
	if err := document.Fill(tpl, &buf, report.Placeholders(in)); err != nil {
		return "", "", err
	}
	s.logger.Debugw("report template filled", "template", s.opts.TemplatePath)

	docURL, err := s.store.Save(ctx, prefix+"/report.docx", document.ContentTypeDocx, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", "", err
	}
	if !s.opts.ConvertPDF {
		return docURL, "", nil
	}

	pdfURL, err := s.savePDF(ctx, prefix, buf.Bytes())
	return docURL, pdfURL, err
}

func (s *SimulationService) savePDF(ctx context.Context, prefix string, docx []byte) (string, error) {
	dir, err := os.MkdirTemp("", "auto-aspen-")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)

	docxPath := filepath.Join(dir, "report.docx")
	if err := os.WriteFile(docxPath, docx, 0644); err != nil {
		return "", err
	}
	pdfPath, err := document.ConvertToPDF(ctx, s.opts.SofficePath, docxPath, dir)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return "", err
	}
	return s.store.Save(ctx, prefix+"/report.pdf", document.ContentTypePDF, bytes.NewReader(data), int64(len(data)))
}

func (s *SimulationService) saveWorkbook(ctx context.Context, prefix string, in report.Input) (string, error) {
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, in); err != nil {
		return "", err
	}
	return s.store.Save(ctx, prefix+"/design.xlsx", contentTypeXLSX, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}
