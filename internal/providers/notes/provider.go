package notes

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// DefaultPreviewLength is the preview size in runes
const DefaultPreviewLength = 80

// SavedMessage is shown after a successful save
const SavedMessage = "Note saved!"

// Store persists note text per window instance
type Store interface {
	SaveNote(ctx context.Context, instanceID, content string) error
	LoadNote(ctx context.Context, instanceID string) string
	DeleteNote(ctx context.Context, instanceID string) error
}

// Provider implements the notes app
type Provider struct {
	store     Store
	logger    *zap.Logger
	sanitizer *bluemonday.Policy

	mu    sync.Mutex
	cache map[string]string
}

// NewProvider creates a new notes provider
func NewProvider(store Store, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{
		store:     store,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
		cache:     make(map[string]string),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "notes",
		Name:         "Notes",
		Description:  "Plain text notes saved per window",
		Category:     types.CategoryApp,
		AppID:        types.AppNotes,
		Capabilities: []string{"load", "save", "clear", "preview"},
		Tools: []types.Tool{
			{ID: "notes.load", Name: "Load Note", Description: "Load the saved note for this window", Returns: "content"},
			{
				ID:          "notes.save",
				Name:        "Save Note",
				Description: "Save the note for this window",
				Parameters: []types.Parameter{
					{Name: "content", Type: "string", Description: "Note text", Required: true},
				},
				Returns: "saved",
			},
			{ID: "notes.clear", Name: "Clear Note", Description: "Empty and forget the note for this window", Returns: "content"},
			{
				ID:          "notes.preview",
				Name:        "Preview",
				Description: "Plain text excerpt of the note",
				Parameters: []types.Parameter{
					{Name: "content", Type: "string", Description: "Text to preview instead of the saved note", Required: false},
					{Name: "length", Type: "number", Description: "Maximum preview length in characters", Required: false},
				},
				Returns: "preview",
			},
		},
	}
}

// Execute routes to appropriate operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	instanceID, err := service.InstanceID(appCtx)
	if err != nil {
		return service.Failure(err.Error())
	}

	switch toolID {
	case "notes.load":
		return service.Success(map[string]interface{}{"content": p.load(ctx, instanceID)})
	case "notes.save":
		return p.save(ctx, instanceID, params)
	case "notes.clear":
		return p.clear(ctx, instanceID)
	case "notes.preview":
		return p.preview(ctx, instanceID, params)
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// Release drops cached text for a closed window. Saved text stays in the store.
func (p *Provider) Release(instanceID string) {
	p.mu.Lock()
	delete(p.cache, instanceID)
	p.mu.Unlock()
}

// Preview reduces content to a plain text excerpt of at most length runes
func (p *Provider) Preview(content string, length int) string {
	if length <= 0 {
		length = DefaultPreviewLength
	}

	text := strings.Join(strings.Fields(p.sanitizer.Sanitize(content)), " ")
	if utf8.RuneCountInString(text) <= length {
		return text
	}

	runes := []rune(text)
	return strings.TrimRight(string(runes[:length]), " ") + "…"
}

func (p *Provider) load(ctx context.Context, instanceID string) string {
	p.mu.Lock()
	content, ok := p.cache[instanceID]
	p.mu.Unlock()
	if ok {
		return content
	}

	content = p.store.LoadNote(ctx, instanceID)

	p.mu.Lock()
	p.cache[instanceID] = content
	p.mu.Unlock()
	return content
}

func (p *Provider) save(ctx context.Context, instanceID string, params map[string]interface{}) (*types.Result, error) {
	content, err := service.GetString(params, "content", true)
	if err != nil {
		return service.Failure(err.Error())
	}
	if err := utils.ValidateSize([]byte(content), utils.MaxNoteSize, "note"); err != nil {
		return service.Failure(err.Error())
	}

	p.mu.Lock()
	p.cache[instanceID] = content
	p.mu.Unlock()

	if err := p.store.SaveNote(ctx, instanceID, content); err != nil {
		p.logger.Warn("Failed to save note", zap.String("instance_id", instanceID), zap.Error(err))
		return service.Success(map[string]interface{}{"saved": false})
	}
	return service.Success(map[string]interface{}{
		"saved":   true,
		"message": SavedMessage,
	})
}

func (p *Provider) clear(ctx context.Context, instanceID string) (*types.Result, error) {
	p.mu.Lock()
	p.cache[instanceID] = ""
	p.mu.Unlock()

	if err := p.store.DeleteNote(ctx, instanceID); err != nil {
		p.logger.Warn("Failed to delete note", zap.String("instance_id", instanceID), zap.Error(err))
	}
	return service.Success(map[string]interface{}{"content": ""})
}

func (p *Provider) preview(ctx context.Context, instanceID string, params map[string]interface{}) (*types.Result, error) {
	content, err := service.GetString(params, "content", false)
	if err != nil {
		return service.Failure(err.Error())
	}
	if _, given := params["content"]; !given {
		content = p.load(ctx, instanceID)
	}

	length, err := service.GetInt(params, "length", DefaultPreviewLength)
	if err != nil {
		return service.Failure(err.Error())
	}

	return service.Success(map[string]interface{}{"preview": p.Preview(content, length)})
}
