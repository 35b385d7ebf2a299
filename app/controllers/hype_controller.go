package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/dobosmarton/gaffer-app/app/models"
	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/audiostore"
	"github.com/dobosmarton/gaffer-app/internal/pkg/hype"
	"github.com/dobosmarton/gaffer-app/internal/pkg/ratelimit"
	"github.com/dobosmarton/gaffer-app/internal/pkg/tts"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usage"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

const (
	generateLimit       = 10
	generateLimitWindow = time.Minute

	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HypeController handles hype speech generation, audio conversion and history
type HypeController struct {
	hypes     repository.HypeRecordRepository
	usage     *usage.Service
	generator *hype.Generator
	tts       *tts.Client
	audio     *audiostore.Store
	limiter   *ratelimit.Limiter
}

func NewHypeController(
	hypes repository.HypeRecordRepository,
	usageService *usage.Service,
	generator *hype.Generator,
	ttsClient *tts.Client,
	audio *audiostore.Store,
	limiter *ratelimit.Limiter,
) *HypeController {
	return &HypeController{
		hypes:     hypes,
		usage:     usageService,
		generator: generator,
		tts:       ttsClient,
		audio:     audio,
		limiter:   limiter,
	}
}

type generateRequest struct {
	GoogleEventID    string `json:"google_event_id"`
	CalendarEventID  string `json:"calendar_event_id"`
	EventTitle       string `json:"event_title"`
	EventDescription string `json:"event_description"`
	EventTime        string `json:"event_time"`
	ManagerStyle     string `json:"manager_style"`
}

// HandleGenerate creates a hype record and fills in the generated text.
// The record is written as pending first so a model failure still leaves an
// auditable row behind.
func (hc *HypeController) HandleGenerate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	if !hc.limiter.Allow(c.Context(), "hype:"+userID, generateLimit, generateLimitWindow) {
		return jsonError(c, fiber.StatusTooManyRequests, "Too many generation requests, slow down")
	}

	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.EventTitle == "" {
		return jsonError(c, fiber.StatusBadRequest, "event_title is required")
	}
	eventTime, err := time.Parse(time.RFC3339, req.EventTime)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "event_time must be RFC3339")
	}
	style := req.ManagerStyle
	if style == "" {
		style = models.STYLE_FERGUSON
	}
	if !models.IsValidManagerStyle(style) {
		return jsonError(c, fiber.StatusBadRequest, "Unknown manager_style")
	}

	if err := hc.usage.CheckCanGenerate(userID); err != nil {
		if errors.Is(err, usage.ErrQuotaExceeded) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Monthly hype limit reached, upgrade for unlimited speeches",
				"code":  "quota_exceeded",
			})
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to check usage")
	}

	record := &models.HypeRecord{
		UserID:          userID,
		CalendarEventID: req.CalendarEventID,
		GoogleEventID:   req.GoogleEventID,
		EventTitle:      req.EventTitle,
		EventTime:       eventTime,
		ManagerStyle:    style,
		Status:          models.HYPE_STATUS_PENDING,
	}
	if err := hc.hypes.Create(record); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to create hype record")
	}

	text, err := hc.generator.GenerateText(
		c.Context(),
		req.EventTitle,
		req.EventDescription,
		eventTime.Format("Monday, January 2 at 15:04"),
		style,
	)
	if err != nil {
		log.Errorf("[Hype] Text generation failed for record %s: %v", record.ID, err)
		if markErr := hc.hypes.MarkError(record.ID); markErr != nil {
			log.Errorf("[Hype] Failed to mark record %s as errored: %v", record.ID, markErr)
		}
		return jsonError(c, fiber.StatusBadGateway, "Hype generation failed, try again")
	}

	if err := hc.hypes.UpdateText(record.ID, text, text); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to save hype text")
	}

	updated, err := hc.hypes.GetByID(record.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load hype record")
	}
	return c.Status(fiber.StatusCreated).JSON(updated)
}

// HandleGenerateAudio converts an existing hype text to speech and stores the
// MP3. Converting the same record twice returns the already uploaded audio.
func (hc *HypeController) HandleGenerateAudio(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	recordID := c.Params("id")

	record, err := hc.loadOwnedRecord(userID, recordID)
	if err != nil {
		return hc.recordErrorResponse(c, err)
	}

	if record.AudioURL != "" {
		return c.JSON(record)
	}
	if record.HypeText == "" {
		return jsonError(c, fiber.StatusConflict, "Hype text is not ready yet")
	}

	speechText := record.AudioText
	if speechText == "" {
		speechText = record.HypeText
	}

	audioStream, err := hc.tts.Convert(c.Context(), speechText, c.Query("voice_id"))
	if err != nil {
		log.Errorf("[Hype] TTS conversion failed for record %s: %v", record.ID, err)
		return jsonError(c, fiber.StatusBadGateway, "Audio conversion failed, try again")
	}
	defer audioStream.Close()

	audioURL, err := hc.audio.Upload(c.Context(), userID, record.ID, audioStream)
	if err != nil {
		log.Errorf("[Hype] Audio upload failed for record %s: %v", record.ID, err)
		return jsonError(c, fiber.StatusInternalServerError, "Failed to store audio")
	}

	if err := hc.hypes.UpdateAudioURL(record.ID, audioURL); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to save audio URL")
	}

	updated, err := hc.hypes.GetByID(record.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load hype record")
	}
	return c.JSON(updated)
}

// HandleGetHype returns a single hype record owned by the caller
func (hc *HypeController) HandleGetHype(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	record, err := hc.loadOwnedRecord(userID, c.Params("id"))
	if err != nil {
		return hc.recordErrorResponse(c, err)
	}
	return c.JSON(record)
}

// HandleHistory lists the caller's past hype records, optionally filtered to
// one calendar event.
func (hc *HypeController) HandleHistory(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	limit := c.QueryInt("limit", defaultHistoryLimit)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := hc.hypes.History(userID, c.Query("google_event_id"), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load history")
	}
	return c.JSON(fiber.Map{
		"records": records,
		"count":   len(records),
	})
}

// HandleGetStyles lists the available manager styles
func (hc *HypeController) HandleGetStyles(c *fiber.Ctx) error {
	styles := make([]fiber.Map, 0, len(hype.ManagerDisplayNames))
	for _, style := range []string{
		models.STYLE_FERGUSON,
		models.STYLE_KLOPP,
		models.STYLE_GUARDIOLA,
		models.STYLE_MOURINHO,
		models.STYLE_BIELSA,
	} {
		styles = append(styles, fiber.Map{
			"id":   style,
			"name": hype.ManagerDisplayNames[style],
		})
	}
	return c.JSON(fiber.Map{"styles": styles})
}

var errNotOwned = errors.New("record not owned by caller")

func (hc *HypeController) loadOwnedRecord(userID, recordID string) (*models.HypeRecord, error) {
	record, err := hc.hypes.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, errNotOwned
	}
	return record, nil
}

func (hc *HypeController) recordErrorResponse(c *fiber.Ctx, err error) error {
	// Ownership mismatches look identical to missing records from outside
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, errNotOwned) {
		return jsonError(c, fiber.StatusNotFound, "Hype record not found")
	}
	return jsonError(c, fiber.StatusInternalServerError, "Failed to load hype record")
}
