package http

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/breathify/backend/internal/domain"
	"github.com/breathify/backend/internal/service"
)

// resultKey holds the session's current domain.Result
const resultKey = "result"

// Handler contains all HTTP handlers
type Handler struct {
	querySvc *service.QueryService
	repo     service.QueryLogRepository
	sessions *session.Store
	tmpl     *template.Template
}

// NewHandler creates a new handler
func NewHandler(querySvc *service.QueryService, repo service.QueryLogRepository, sessions *session.Store, loc *time.Location) *Handler {
	sessions.RegisterType(domain.Result{})
	return &Handler{
		querySvc: querySvc,
		repo:     repo,
		sessions: sessions,
		tmpl:     newTemplates(loc),
	}
}

// pageView is everything the index page can show
type pageView struct {
	City    string
	Warning string
	Error   string
	Result  *domain.Result
}

// checkRequest is the JSON body of the advisory API
type checkRequest struct {
	City string `json:"city"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	ctx := c.UserContext()

	database := "ok"
	if err := h.repo.Health(ctx); err != nil {
		log.Printf("Health check: %v", err)
		database = "unavailable"
	}

	checks, err := h.repo.CountQueries(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		log.Printf("Health check: %v", err)
	}

	return c.JSON(fiber.Map{
		"status":     "ok",
		"service":    "breathify",
		"version":    "1.0.0",
		"model":      h.querySvc.PredictorName(),
		"speech":     h.querySvc.SpeechProvider(),
		"database":   database,
		"checks_24h": checks,
	})
}

// Index renders the page with the session's current result, if any
func (h *Handler) Index(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	view := pageView{Result: currentResult(sess)}
	if view.Result != nil {
		view.City = view.Result.City
	}
	return h.render(c, fiber.StatusOK, view)
}

// Check runs an air quality check for the submitted city. Success replaces
// the session's result; failure leaves it as it was.
func (h *Handler) Check(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	city := strings.TrimSpace(c.FormValue("city"))
	view := pageView{City: city, Result: currentResult(sess)}

	if city == "" {
		view.Warning = userMessage(domain.ErrEmptyCity)
		return h.render(c, fiber.StatusBadRequest, view)
	}

	result, err := h.querySvc.Check(c.UserContext(), sess.ID(), city)
	if err != nil {
		log.Printf("Check %q failed: %v", city, err)
		view.Error = userMessage(err)
		return h.render(c, statusFor(err), view)
	}

	sess.Set(resultKey, result)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("session: failed to save: %w", err)
	}

	view.Result = &result
	return h.render(c, fiber.StatusOK, view)
}

// Audio speaks the stored advisory in the requested language
func (h *Handler) Audio(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}

	lang := c.Params("lang")
	audio, err := h.querySvc.Speak(c.UserContext(), currentResult(sess), lang)
	if err != nil {
		log.Printf("Speech (%s) failed: %v", lang, err)
		return fiber.NewError(statusFor(err), userMessage(err))
	}

	c.Set(fiber.HeaderContentType, "audio/mpeg")
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(audio)
}

// CheckAPI runs a stateless check and returns the result as JSON
func (h *Handler) CheckAPI(c *fiber.Ctx) error {
	var req checkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.querySvc.Check(c.UserContext(), "api", req.City)
	if err != nil {
		log.Printf("API check %q failed: %v", req.City, err)
		return fiber.NewError(statusFor(err), userMessage(err))
	}

	return c.JSON(domain.AdviceResponse{
		Data:    result,
		Success: true,
	})
}

// PreviewAdvisory returns the advisory for a class and optional readings
func (h *Handler) PreviewAdvisory(c *fiber.Ctx) error {
	class, err := strconv.Atoi(c.Query("class"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "class must be an integer")
	}

	temperature, err := optionalFloat(c.Query("temperature"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "temperature must be a number")
	}
	humidity, err := optionalFloat(c.Query("humidity"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "humidity must be a number")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.querySvc.Preview(class, temperature, humidity),
	})
}

func (h *Handler) render(c *fiber.Ctx, status int, view pageView) error {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", view); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}

func currentResult(sess *session.Session) *domain.Result {
	if r, ok := sess.Get(resultKey).(domain.Result); ok {
		return &r
	}
	return nil
}

func optionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyCity):
		return "Please enter a city name."
	case errors.Is(err, domain.ErrCityNotFound):
		return "City not found or invalid API response."
	case errors.Is(err, domain.ErrIncompleteData):
		return "Incomplete data received from APIs."
	case errors.Is(err, domain.ErrNoResult):
		return "Check the air quality for a city first."
	case errors.Is(err, domain.ErrUnsupportedLanguage):
		return "Audio is available in English (en) and Urdu (ur) only."
	case errors.Is(err, domain.ErrSynthesis):
		return "Could not generate audio right now. Please try again."
	default:
		return "Error fetching data. Please try again later."
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrEmptyCity), errors.Is(err, domain.ErrUnsupportedLanguage):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrCityNotFound), errors.Is(err, domain.ErrNoResult):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrIncompleteData), errors.Is(err, domain.ErrSynthesis):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
