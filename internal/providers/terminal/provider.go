package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/WebDesk/backend/internal/service"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Provider implements the terminal app
type Provider struct {
	sessions sync.Map // map[string]*Session
	now      func() time.Time
}

// NewProvider creates a new terminal provider
func NewProvider() *Provider {
	return &Provider{now: time.Now}
}

// WithClock overrides the clock used by the date command
func (p *Provider) WithClock(now func() time.Time) *Provider {
	p.now = now
	return p
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "terminal",
		Name:         "Terminal",
		Description:  "Mock terminal with a handful of built-in commands",
		Category:     types.CategoryApp,
		AppID:        types.AppTerminal,
		Capabilities: []string{"commands", "output"},
		Tools: []types.Tool{
			{
				ID:          "terminal.run",
				Name:        "Run Command",
				Description: "Interpret one command line",
				Parameters: []types.Parameter{
					{Name: "command", Type: "string", Description: "Command line to run", Required: true},
				},
				Returns: "lines",
			},
			{
				ID:          "terminal.output",
				Name:        "Read Output",
				Description: "Return the terminal output buffer",
				Returns:     "lines",
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
	case "terminal.run":
		return p.run(instanceID, params)
	case "terminal.output":
		return service.Success(map[string]interface{}{
			"lines": p.session(instanceID).Output(),
		})
	default:
		return service.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

// Release drops the window's session
func (p *Provider) Release(instanceID string) {
	p.sessions.Delete(instanceID)
}

// Sessions returns the number of live sessions
func (p *Provider) Sessions() int {
	n := 0
	p.sessions.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}

func (p *Provider) run(instanceID string, params map[string]interface{}) (*types.Result, error) {
	command, err := service.GetString(params, "command", true)
	if err != nil {
		return service.Failure(err.Error())
	}
	if err := utils.ValidateSize([]byte(command), utils.MaxCommandSize, "command"); err != nil {
		return service.Failure(err.Error())
	}

	appended, cleared := p.session(instanceID).Run(command)
	if appended == nil {
		appended = []string{}
	}
	return service.Success(map[string]interface{}{
		"appended": appended,
		"cleared":  cleared,
	})
}

func (p *Provider) session(instanceID string) *Session {
	if s, ok := p.sessions.Load(instanceID); ok {
		return s.(*Session)
	}
	s, _ := p.sessions.LoadOrStore(instanceID, NewSession(p.now))
	return s.(*Session)
}
