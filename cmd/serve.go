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
	"golang.org/x/sync/errgroup"

	"github.com/dxpulse/plct-cli/internal/export"
	"github.com/dxpulse/plct-cli/internal/model"
	"github.com/dxpulse/plct-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction results over a read-only HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(st),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// newRouter builds the read-only API over the store.
func newRouter(st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/counts", func(w http.ResponseWriter, req *http.Request) {
		counts, err := st.GetCounts(req.Context())
		if err != nil {
			serverError(w, "get counts", err)
			return
		}
		writeJSON(w, http.StatusOK, counts)
	})

	r.Get("/api/companies", func(w http.ResponseWriter, req *http.Request) {
		companies, err := st.ListCompanies(req.Context())
		if err != nil {
			serverError(w, "list companies", err)
			return
		}
		out := make([]apiCompany, 0, len(companies))
		for _, c := range companies {
			out = append(out, toAPICompany(c))
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Get("/api/companies/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		company, err := st.GetCompany(req.Context(), name)
		if err != nil {
			serverError(w, "get company", err)
			return
		}
		if company == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "company not found"})
			return
		}

		initiatives, err := st.ListInitiatives(req.Context(), company.ID)
		if err != nil {
			serverError(w, "list initiatives", err)
			return
		}

		out := toAPICompany(*company)
		out.Initiatives = make([]apiInitiative, 0, len(initiatives))
		for _, ir := range initiatives {
			out.Initiatives = append(out.Initiatives, toAPIInitiative(ir))
		}
		writeJSON(w, http.StatusOK, out)
	})

	return r
}

type apiCompany struct {
	ID                   int64           `json:"id"`
	CompanyName          string          `json:"company_name"`
	CompanySector        string          `json:"company_sector"`
	YearMentioned        string          `json:"year_mentioned,omitempty"`
	ReportType           string          `json:"report_type,omitempty"`
	TechnologyUsed       *string         `json:"technology_used,omitempty"`
	Department           *string         `json:"department,omitempty"`
	DigitalInvestment    string          `json:"digital_investment,omitempty"`
	DigitalMaturityLevel string          `json:"digital_maturity_level,omitempty"`
	StrategicPriority    string          `json:"strategic_priority,omitempty"`
	Initiatives          []apiInitiative `json:"initiatives,omitempty"`
}

type apiInitiative struct {
	ID                int64   `json:"id"`
	Category          string  `json:"category,omitempty"`
	Initiative        string  `json:"initiative,omitempty"`
	CustomerScore     int     `json:"customer_experience_score"`
	PeopleScore       int     `json:"people_empowerment_score"`
	OperationalScore  int     `json:"operational_efficiency_score"`
	BusinessScore     int     `json:"new_business_models_score"`
	TotalScore        int     `json:"total_score"`
	DominantDimension string  `json:"dominant_dimension"`
	InvestorWeighted  float64 `json:"investor_weighted_score"`
	PolicyWeighted    float64 `json:"policy_weighted_score"`
	StrategicWeighted float64 `json:"strategic_weighted_score"`
	DisclosureTotal   int     `json:"disclosure_total_score"`
	DisclosureTier    string  `json:"disclosure_tier"`
	ConfidenceLevel   string  `json:"confidence_level"`
	Flagged           bool    `json:"flagged_for_verification"`
	SourceFile        string  `json:"source_file"`
}

func toAPICompany(c model.CompanyRow) apiCompany {
	return apiCompany{
		ID:                   c.ID,
		CompanyName:          c.CompanyName,
		CompanySector:        export.DisplaySector(c.CompanySector),
		YearMentioned:        c.YearMentioned,
		ReportType:           c.ReportType,
		TechnologyUsed:       c.TechnologyUsed,
		Department:           c.Department,
		DigitalInvestment:    c.DigitalInvestment,
		DigitalMaturityLevel: c.DigitalMaturityLevel,
		StrategicPriority:    c.StrategicPriority,
	}
}

func toAPIInitiative(ir model.InitiativeRow) apiInitiative {
	return apiInitiative{
		ID:                ir.ID,
		Category:          ir.Category,
		Initiative:        ir.Initiative,
		CustomerScore:     ir.CustomerExperienceScore,
		PeopleScore:       ir.PeopleEmpowermentScore,
		OperationalScore:  ir.OperationalEfficiencyScore,
		BusinessScore:     ir.NewBusinessModelsScore,
		TotalScore:        ir.TotalScore,
		DominantDimension: ir.DominantDimension,
		InvestorWeighted:  ir.InvestorWeightedScore,
		PolicyWeighted:    ir.PolicyWeightedScore,
		StrategicWeighted: ir.StrategicWeightedScore,
		DisclosureTotal:   ir.DisclosureTotalScore,
		DisclosureTier:    ir.DisclosureTier,
		ConfidenceLevel:   ir.ConfidenceLevel,
		Flagged:           ir.FlaggedForVerification,
		SourceFile:        ir.SourceFile,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func serverError(w http.ResponseWriter, op string, err error) {
	zap.L().Error("serve: "+op, zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
