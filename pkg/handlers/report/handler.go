package report

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/de-tools/weekly-pulse/pkg/models/api"
	"github.com/de-tools/weekly-pulse/pkg/models/domain"
	"github.com/de-tools/weekly-pulse/pkg/services/report"
	"github.com/rs/zerolog"
)

type Handler struct {
	generator *report.Generator
	schema    interface {
		PeriodField(domain.SectionID) string
	}
}

func NewHandler(generator *report.Generator, schema interface {
	PeriodField(domain.SectionID) string
}) *Handler {
	return &Handler{generator: generator, schema: schema}
}

// GetReport runs the full weekly pipeline. Query parameters:
//
//	week=YYYYMMDD  anchor the report on an explicit week (any day inside it)
//	offset=-N      shift the report week by N weeks
//	sections=a,b   restrict to the named sections
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, false)
}

// GetQuality runs the same pipeline but responds with the data-health report
// only.
func (h *Handler) GetQuality(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, true)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, qualityOnly bool) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	opts, err := optionsFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	weekly, err := h.generator.Generate(ctx, opts)
	if err != nil {
		logger.Error().Err(err).Msg("report generation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	var body any = weekly
	if qualityOnly {
		body = weekly.Quality
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode report")
	}
}

// ListSections returns the section catalogue and each section's period field.
func (h *Handler) ListSections(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	var response []api.Section
	for _, section := range domain.AllSections() {
		response = append(response, api.Section{
			Name:        string(section),
			PeriodField: h.schema.PeriodField(section),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error().Err(err).Msg("failed to encode sections")
	}
}

func optionsFromQuery(r *http.Request) (report.Options, error) {
	var opts report.Options

	if week := r.URL.Query().Get("week"); week != "" {
		label, ok := domain.ParseWeekLabel(week)
		if !ok {
			return opts, fmt.Errorf("week %q is not a valid YYYYMMDD label", week)
		}
		opts.TargetWeek = label
	}

	if offset := r.URL.Query().Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil {
			return opts, err
		}
		opts.WeekOffset = n
	}

	if sections := r.URL.Query().Get("sections"); sections != "" {
		for _, name := range strings.Split(sections, ",") {
			section := domain.SectionID(strings.TrimSpace(name))
			if !section.Valid() {
				return opts, domain.ErrUnknownSection(section)
			}
			opts.Sections = append(opts.Sections, section)
		}
	}

	return opts, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.Error{Error: msg})
}
