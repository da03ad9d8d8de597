package api

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/papercomputeco/artomo/pkg/content"
	"github.com/papercomputeco/artomo/pkg/records"
	"github.com/papercomputeco/artomo/pkg/report"
)

// exhibitionNotFound is the report body returned for unknown exhibitions.
const exhibitionNotFound = "Exhibition not found"

// Reporter serves exhibition reports.
type Reporter interface {
	Exhibition(ctx context.Context, id uuid.UUID, query map[string]string, refresh bool) (string, error)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// QueryRequest is the body of the recommend and exhibition report endpoints.
// Query is a JSON object of facets; the report endpoint also accepts the
// object encoded as a JSON string.
type QueryRequest struct {
	Query        json.RawMessage   `json:"query"`
	Filters      map[string]string `json:"filters,omitempty"`
	UID          string            `json:"uid,omitempty"`
	CreateReport bool              `json:"create_report,omitempty"`
}

// ReportResponse carries one generated report.
type ReportResponse struct {
	Report string `json:"report"`
}

// ActiveExhibition is one entry of an area group.
type ActiveExhibition struct {
	UID                 string  `json:"uid"`
	Name                string  `json:"name"`
	Latitude            float64 `json:"Latitude"`
	Longitude           float64 `json:"Longitude"`
	ExhibitionStartDate *string `json:"exhibition_start_date"`
	ExhibitionEndDate   *string `json:"exhibition_end_date"`
	ExhibitionImageURL  string  `json:"exhibition_image_url"`
}

// AreaGroup lists the active exhibitions of one area.
type AreaGroup struct {
	Area  string             `json:"area"`
	Count int                `json:"count"`
	Data  []ActiveExhibition `json:"data"`
}

var errQueryFormat = errors.New("invalid query format, must be a JSON object")

// facets decodes the query field. A JSON string holding an object is
// accepted as well; a missing query yields no facets.
func (r *QueryRequest) facets() (map[string]string, error) {
	if len(r.Query) == 0 || string(r.Query) == "null" {
		return map[string]string{}, nil
	}

	raw := []byte(r.Query)
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = []byte(encoded)
	}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, errQueryFormat
	}

	out := make(map[string]string, len(generic))
	for k, v := range generic {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
		default:
			b, _ := json.Marshal(val)
			out[k] = string(b)
		}
	}
	return out, nil
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleActiveExhibitions returns exhibitions that have not ended, grouped
// by area.
func (s *Server) handleActiveExhibitions(c *fiber.Ctx) error {
	now := s.now()
	exhibitions, err := records.BulkFindExhibitions(c.Context(), s.store, records.Filter{ActiveAt: &now})
	if err != nil {
		s.logger.Error("listing active exhibitions", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to list exhibitions"})
	}

	return c.JSON(groupByArea(exhibitions))
}

func groupByArea(exhibitions []*content.Exhibition) []AreaGroup {
	index := map[string]int{}
	groups := []AreaGroup{}
	for _, e := range exhibitions {
		i, ok := index[e.Area]
		if !ok {
			i = len(groups)
			index[e.Area] = i
			groups = append(groups, AreaGroup{Area: e.Area, Data: []ActiveExhibition{}})
		}
		groups[i].Data = append(groups[i].Data, ActiveExhibition{
			UID:                 e.ID.String(),
			Name:                e.Name,
			Latitude:            e.Latitude,
			Longitude:           e.Longitude,
			ExhibitionStartDate: isoDate(e.StartDate),
			ExhibitionEndDate:   isoDate(e.EndDate),
			ExhibitionImageURL:  e.ImageURL,
		})
		groups[i].Count++
	}

	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Area < groups[b].Area })
	return groups
}

func isoDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// handleRecommend handles POST /v1/recommend.
func (s *Server) handleRecommend(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	facets, err := req.facets()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	out, err := s.config.Recommender.Recommend(c.Context(), facets, req.Filters)
	if err != nil {
		var malformed *content.MalformedInputError
		if errors.As(err, &malformed) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
		}
		s.logger.Error("recommend failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "failed to write recommendation"})
	}

	return c.JSON(out)
}

// handleExhibitionReports handles POST /v1/exhibition_reports. The cached
// report is returned unless create_report is set.
func (s *Server) handleExhibitionReports(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	facets, err := req.facets()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	id, err := uuid.Parse(req.UID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "uid must be an exhibition id"})
	}

	text, err := s.config.Reports.Exhibition(c.Context(), id, facets, req.CreateReport)
	switch {
	case errors.Is(err, report.ErrExhibitionNotFound):
		return c.JSON(ReportResponse{Report: exhibitionNotFound})
	case err != nil:
		s.logger.Error("exhibition report failed", "exhibition_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal server error"})
	}

	return c.JSON(ReportResponse{Report: text})
}
