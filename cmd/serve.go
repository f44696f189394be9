package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sha-research/cmf-cli/internal/model"
	"github.com/sha-research/cmf-cli/internal/pipeline"
	"github.com/sha-research/cmf-cli/internal/report"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve crash analyses over HTTP",
	Long: `Starts an HTTP server with a minimal form at / and a JSON API at
POST /api/analyze. Analyses run synchronously; the response carries the
run ID, report path, and total cohort results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := initAnalyzer("serve")
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(a, defaultReportOptions()),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP surface: the form page, a health probe, and
// the synchronous analysis endpoint.
func newRouter(a *pipeline.Analyzer, opts report.Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", handleIndex)
	r.Get("/health", handleHealth)
	r.Post("/api/analyze", handleAnalyze(a, opts))

	return r
}

// requestLogger logs one line per request with the chi request ID.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	Route     string  `json:"route"`
	Number    int     `json:"number"`
	StartMP   float64 `json:"start_mp"`
	EndMP     float64 `json:"end_mp"`
	StartYear int     `json:"start_year"`
	EndYear   int     `json:"end_year"`
	CMFFile   string  `json:"cmf_file"`
	OutputDir string  `json:"output_dir"`
}

func handleAnalyze(a *pipeline.Analyzer, opts report.Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.CMFFile == "" {
			http.Error(w, `{"error":"cmf_file is required"}`, http.StatusBadRequest)
			return
		}

		out, err := a.Run(r.Context(), pipeline.Params{
			Area: model.StudyArea{
				RoutePrefix: req.Route,
				RouteNumber: req.Number,
				StartMP:     req.StartMP,
				EndMP:       req.EndMP,
				StartYear:   req.StartYear,
				EndYear:     req.EndYear,
			},
			InputPath: req.CMFFile,
			OutputDir: req.OutputDir,
			Report:    opts,
		})
		if err != nil {
			zap.L().Error("analysis request failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(out)
	}
}

func handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, indexHTML)
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>CMF Analysis</title></head>
<body>
<h1>CMF Analysis</h1>
<form id="study">
  <label>Route <input name="route" value="IS" size="4"></label>
  <label>Number <input name="number" type="number"></label>
  <label>Start MP <input name="start_mp" value="0"></label>
  <label>End MP <input name="end_mp"></label>
  <label>Start year <input name="start_year" type="number"></label>
  <label>End year <input name="end_year" type="number"></label>
  <label>CMF file <input name="cmf_file" size="40"></label>
  <button type="submit">Analyze</button>
</form>
<pre id="out"></pre>
<script>
document.getElementById("study").addEventListener("submit", async (e) => {
  e.preventDefault();
  const fd = new FormData(e.target);
  const body = {
    route: fd.get("route"),
    number: parseInt(fd.get("number"), 10),
    start_mp: parseFloat(fd.get("start_mp")),
    end_mp: parseFloat(fd.get("end_mp")),
    start_year: parseInt(fd.get("start_year"), 10),
    end_year: parseInt(fd.get("end_year"), 10),
    cmf_file: fd.get("cmf_file")
  };
  const resp = await fetch("/api/analyze", {
    method: "POST",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify(body)
  });
  document.getElementById("out").textContent = JSON.stringify(await resp.json(), null, 2);
});
</script>
</body>
</html>
`
