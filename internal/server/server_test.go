package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/littleRiceZhou/auto-aspen/internal/config"
	"github.com/littleRiceZhou/auto-aspen/internal/requestid"
	"github.com/littleRiceZhou/auto-aspen/internal/server"
	"github.com/littleRiceZhou/auto-aspen/internal/service"
	"github.com/littleRiceZhou/auto-aspen/internal/simulator"
	"github.com/littleRiceZhou/auto-aspen/internal/storage"
)

type fakeRunner struct {
	result *simulator.Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, p simulator.Parameters) (*simulator.Result, error) {
	return f.result, f.err
}

var _ = Describe("Server", func() {
	var (
		runner *fakeRunner
		dir    string
		ts     *httptest.Server
	)

	BeforeEach(func() {
		runner = &fakeRunner{result: &simulator.Result{Success: true, PowerOutput: 1500}}
		dir = GinkgoT().TempDir()

		cfg, err := config.New()
		Expect(err).ToNot(HaveOccurred())

		opts := service.DefaultOptions()
		svc := service.NewSimulationService(runner, storage.NewLocalStore(dir, cfg.Artifacts.URLPrefix), nil, opts)
		ts = httptest.NewServer(server.New(cfg, svc, nil, dir).Router())
	})

	AfterEach(func() {
		ts.Close()
	})

	post := func(path, body string) *http.Response {
		resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
		Expect(err).ToNot(HaveOccurred())
		return resp
	}

	decode := func(resp *http.Response, v any) {
		defer resp.Body.Close()
		Expect(json.NewDecoder(resp.Body).Decode(v)).To(Succeed())
	}

	It("reports health", func() {
		resp, err := http.Get(ts.URL + "/health")
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get(requestid.Header)).ToNot(BeEmpty())

		var body server.HealthResponse
		decode(resp, &body)
		Expect(body.Status).To(Equal("healthy"))
	})

	It("runs a simulation with default parameters", func() {
		resp := post("/api/simulation", `{}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body service.SimulationResponse
		decode(resp, &body)
		Expect(body.Success).To(BeTrue())
		Expect(body.PowerResults.Selection.Unit.Model).To(Equal("TP1000"))
		Expect(body.PowerResults.Selection.PowerSplit).ToNot(BeNil())
		Expect(body.DiagramURL).To(HavePrefix("/static/"))

		// the diagram is served from the artifact directory
		img, err := http.Get(ts.URL + body.DiagramURL)
		Expect(err).ToNot(HaveOccurred())
		defer img.Body.Close()
		Expect(img.StatusCode).To(Equal(http.StatusOK))

		_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(body.DiagramURL, "/static/")))
		Expect(err).ToNot(HaveOccurred())
	})

	It("accepts an empty body", func() {
		resp := post("/api/simulation", ``)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		resp.Body.Close()
	})

	It("returns the simulator failure in the body", func() {
		runner.result, runner.err = nil, simulator.ErrBusy

		resp := post("/api/simulation", `{"gas_flow_rate": 20000}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body service.SimulationResponse
		decode(resp, &body)
		Expect(body.Success).To(BeFalse())
		Expect(body.ErrorMessage).To(ContainSubstring("busy"))
	})

	It("rejects invalid parameters", func() {
		resp := post("/api/simulation", `{"efficiency": 150}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

		var body server.ErrorResponse
		decode(resp, &body)
		Expect(body.Error).To(ContainSubstring("Efficiency"))
		Expect(body.RequestID).ToNot(BeEmpty())
	})

	It("rejects malformed JSON", func() {
		resp := post("/api/simulation", `{"gas_flow_rate": "a lot"}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		resp.Body.Close()
	})

	It("calculates from a main power", func() {
		resp := post("/api/power", `{"main_power": 66.53419}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body service.PowerResults
		decode(resp, &body)
		Expect(body.Selection.Unit.Model).To(Equal("TP100"))
		Expect(body.Design.PaybackPeriod).To(Equal(4.0))
	})

	It("merges partial overrides with the defaults", func() {
		resp := post("/api/power", `{"main_power": 100, "utility_params": {"mechanical_loss_ratio": 0.05}}`)
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body service.PowerResults
		decode(resp, &body)
		Expect(body.Design.Utility.LubricationOilAmount).To(BeNumerically(">", 0))
	})

	It("rejects out of range overrides", func() {
		resp := post("/api/power", `{"main_power": 100, "main_engine_params": {"generator_efficiency": 1.5}}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		resp.Body.Close()
	})

	It("requires a positive main power", func() {
		resp := post("/api/power", `{"main_power": -1}`)
		Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		resp.Body.Close()
	})

	It("exposes metrics", func() {
		post("/api/power", `{"main_power": 100}`).Body.Close()

		resp, err := http.Get(ts.URL + "/metrics")
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := io.ReadAll(resp.Body)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("auto_aspen_designs_total"))
		Expect(string(body)).To(ContainSubstring("chi_requests_total"))
	})

	It("shuts down when the context is cancelled", func() {
		cfg, err := config.New()
		Expect(err).ToNot(HaveOccurred())
		listener, err := net.Listen("tcp", "127.0.0.1:0")
		Expect(err).ToNot(HaveOccurred())

		svc := service.NewSimulationService(runner, storage.NewLocalStore(dir, "/static"), nil, service.DefaultOptions())
		srv := server.New(cfg, svc, listener, "")

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- srv.Run(ctx) }()

		Eventually(func() error {
			resp, err := http.Get("http://" + listener.Addr().String() + "/health")
			if err == nil {
				resp.Body.Close()
			}
			return err
		}).WithTimeout(5 * time.Second).Should(Succeed())

		cancel()
		Eventually(done).WithTimeout(10 * time.Second).Should(Receive(BeNil()))
	})
})
