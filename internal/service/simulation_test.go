package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/littleRiceZhou/auto-aspen/internal/power"
	"github.com/littleRiceZhou/auto-aspen/internal/report"
	"github.com/littleRiceZhou/auto-aspen/internal/service"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
)

type fakeRunner struct {
	result *simulator.Result
	err    error
	calls  int
}

func (f *fakeRunner) Run(ctx context.Context, p simulator.Parameters) (*simulator.Result, error) {
	f.calls++
	return f.result, f.err
}

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[name] = data
	m.types[name] = contentType
	return "/static/" + name, nil
}

func writeTemplate(path string) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	Expect(err).ToNot(HaveOccurred())
	_, err = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		`<w:p><w:r><w:t>{auto_aspen_7} {auto_aspen_5}kW {auto_aspen_12}</w:t></w:r></w:p>`+
		`</w:body></w:document>`)
	Expect(err).ToNot(HaveOccurred())
	Expect(zw.Close()).To(Succeed())
	Expect(os.WriteFile(path, buf.Bytes(), 0644)).To(Succeed())
}

var _ = Describe("SimulationService", func() {
	var (
		runner *fakeRunner
		store  *memStore
		opts   service.Options
		ctx    context.Context
	)

	BeforeEach(func() {
		runner = &fakeRunner{result: &simulator.Result{Success: true, PowerOutput: 66.53419}}
		store = newMemStore()
		opts = service.DefaultOptions()
		ctx = context.Background()
	})

	Context("Simulate", func() {
		It("sizes the unit from the simulated power", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
			Expect(runner.calls).To(Equal(1))

			Expect(resp.PowerResults).ToNot(BeNil())
			Expect(resp.PowerResults.Design.MainEngine.InputPower).To(Equal(66.53419))
			Expect(resp.PowerResults.Selection.Unit.Model).To(Equal("TP100"))
			Expect(resp.PowerResults.Selection.Unit.Weight).To(Equal("15t/5t"))
			Expect(resp.PowerResults.Selection.PaybackPeriod).To(Equal("4.0 years"))
			Expect(resp.PowerResults.Details).To(HaveLen(6))
			Expect(resp.PowerResults.Validation.Passed).To(BeTrue())

			Expect(resp.CombinedResults.Overview.OverallStatus).To(Equal("ok"))
			Expect(resp.CombinedResults.Inputs).To(Equal(simulator.DefaultParameters()))
			Expect(resp.Warnings).To(BeEmpty())
		})

		It("stores the diagram and workbook", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.DiagramURL).To(HavePrefix("/static/"))
			Expect(resp.DiagramURL).To(HaveSuffix("/layout.png"))
			Expect(resp.WorkbookURL).To(HaveSuffix("/design.xlsx"))
			Expect(resp.DocumentURL).To(BeEmpty())

			name := strings.TrimPrefix(resp.DiagramURL, "/static/")
			Expect(store.objects[name]).To(HavePrefix("\x89PNG"))
			Expect(store.types[name]).To(Equal("image/png"))
		})

		It("fills the report template", func() {
			opts.TemplatePath = filepath.Join(GinkgoT().TempDir(), "template.docx")
			writeTemplate(opts.TemplatePath)
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.DocumentURL).To(HaveSuffix("/report.docx"))
			Expect(resp.PDFURL).To(BeEmpty())

			data := store.objects[strings.TrimPrefix(resp.DocumentURL, "/static/")]
			zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			Expect(err).ToNot(HaveOccurred())
			rc, err := zr.Open("word/document.xml")
			Expect(err).ToNot(HaveOccurred())
			text, err := io.ReadAll(rc)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(text)).To(ContainSubstring("<w:t>TP100 52kW 15t/5t</w:t>"))
			Expect(string(text)).ToNot(ContainSubstring("auto_aspen_"))
		})

		It("reports a missing template as a warning", func() {
			opts.TemplatePath = filepath.Join(GinkgoT().TempDir(), "missing.docx")
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.DocumentURL).To(BeEmpty())
			Expect(resp.Warnings).To(ContainElement(ContainSubstring("document template")))
		})

		It("keeps the design when the store fails", func() {
			store.err = errors.New("disk full")
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeTrue())
			Expect(resp.PowerResults).ToNot(BeNil())
			Expect(resp.DiagramURL).To(BeEmpty())
			Expect(resp.Warnings).To(HaveLen(2))
		})

		It("falls back to the estimated power", func() {
			runner.result = &simulator.Result{Success: true, Message: "no power output"}
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeTrue())

			want := simulator.EstimatePower(simulator.DefaultParameters())
			Expect(resp.PowerResults.Design.MainEngine.InputPower).To(Equal(want))
			Expect(resp.Warnings).To(ContainElement(ContainSubstring("estimated")))
		})

		It("stops when the simulator fails", func() {
			runner.result = nil
			runner.err = simulator.ErrNotConverged
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeFalse())
			Expect(resp.ErrorMessage).To(ContainSubstring("simulation failed"))
			Expect(resp.PowerResults).To(BeNil())
			Expect(store.objects).To(BeEmpty())
		})

		It("stops when the simulator reports an unsuccessful run", func() {
			runner.result = &simulator.Result{Success: false, Message: "model not found"}
			svc := service.NewSimulationService(runner, store, nil, opts)

			resp, err := svc.Simulate(ctx, service.DefaultSimulationRequest())
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Success).To(BeFalse())
			Expect(resp.ErrorMessage).To(ContainSubstring("model not found"))
		})

		DescribeTable("rejects invalid requests",
			func(mutate func(r *service.SimulationRequest)) {
				svc := service.NewSimulationService(runner, store, nil, opts)
				req := service.DefaultSimulationRequest()
				mutate(&req)

				_, err := svc.Simulate(ctx, req)
				var invalid *service.ErrInvalidRequest
				Expect(errors.As(err, &invalid)).To(BeTrue())
				Expect(runner.calls).To(BeZero())
			},
			Entry("zero flow", func(r *service.SimulationRequest) { r.GasFlowRate = 0 }),
			Entry("negative inlet pressure", func(r *service.SimulationRequest) { r.InletPressure = -1 }),
			Entry("efficiency above 100", func(r *service.SimulationRequest) { r.Efficiency = 120 }),
			Entry("outlet above inlet", func(r *service.SimulationRequest) { r.OutletPressure = 1.0 }),
			Entry("empty composition", func(r *service.SimulationRequest) { r.GasComposition = simulator.GasComposition{} }),
		)
	})

	Context("Calculate", func() {
		It("runs the pipeline for a known power", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)

			res, err := svc.Calculate(ctx, service.PowerRequest{MainPower: 1500})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Design.IsDualLevel).To(BeTrue())
			Expect(res.Selection.DesignType).To(Equal(report.DesignDualLevel))
			Expect(res.Selection.PowerSplit).ToNot(BeNil())
			Expect(runner.calls).To(BeZero())
		})

		It("applies parameter overrides", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)
			eco := power.DefaultEconomicParams()
			eco.ElectricityPrice = 1.2

			res, err := svc.Calculate(ctx, service.PowerRequest{MainPower: 66.53419, Economic: &eco})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Design.PaybackPeriod).To(Equal(2.0))
		})

		It("rejects a non-positive power", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)

			_, err := svc.Calculate(ctx, service.PowerRequest{MainPower: 0})
			var invalid *service.ErrInvalidRequest
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("fills omitted override fields from the defaults", func() {
			svc := service.NewSimulationService(runner, store, nil, opts)

			var req service.PowerRequest
			Expect(json.Unmarshal([]byte(`{"main_power": 100, "utility_params": {"mechanical_loss_ratio": 0.05}}`), &req)).To(Succeed())
			Expect(req.Utility.MechanicalLossRatio).To(Equal(0.05))
			Expect(req.Utility.LubricationOilDensity).To(Equal(850.0))
			Expect(req.MainEngine).To(BeNil())

			res, err := svc.Calculate(ctx, req)
			Expect(err).ToNot(HaveOccurred())
			Expect(math.IsInf(res.Design.Utility.LubricationOilAmount, 0)).To(BeFalse())
			Expect(math.IsNaN(res.Design.Utility.OilCoolerCirculationWater)).To(BeFalse())

			req = service.PowerRequest{}
			Expect(json.Unmarshal([]byte(`{"main_power": 100, "main_engine_params": {"generator_efficiency": 0.9}}`), &req)).To(Succeed())
			Expect(req.MainEngine.GapLeakageFactor).To(Equal(0.98))

			res, err = svc.Calculate(ctx, req)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Design.Utility.NetPowerOutput).To(BeNumerically(">", 0))
			Expect(res.Design.MainEngine.TotalPowerGeneration).To(BeNumerically("~", 100*0.98*0.98*0.98*0.9, 1e-9))
		})

		DescribeTable("rejects out of range overrides",
			func(body string) {
				svc := service.NewSimulationService(runner, store, nil, opts)

				var req service.PowerRequest
				Expect(json.Unmarshal([]byte(body), &req)).To(Succeed())
				_, err := svc.Calculate(ctx, req)
				var invalid *service.ErrInvalidRequest
				Expect(errors.As(err, &invalid)).To(BeTrue())
			},
			Entry("factor above one", `{"main_power": 100, "main_engine_params": {"generator_efficiency": 1.5}}`),
			Entry("zero factor", `{"main_power": 100, "main_engine_params": {"gearbox_loss_factor": 0}}`),
			Entry("zero oil density", `{"main_power": 100, "utility_params": {"lubrication_oil_density": 0}}`),
			Entry("zero temperature rise", `{"main_power": 100, "utility_params": {"oil_cooler_temp_rise": 0}}`),
			Entry("negative price", `{"main_power": 100, "economic_params": {"electricity_price": -1}}`),
			Entry("outlet above inlet", `{"main_power": 100, "parameters": {"outlet_pressure": 2}}`),
		)
	})
})
