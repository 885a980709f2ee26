// Package service provides the service registry for mock application providers.
//
// Each mock app (terminal, files, notes, browser, notifications) registers a
// Provider. Tools are addressed as "<service>.<tool>" and executed with the
// originating window instance in the context. Providers that keep state per
// window implement Releaser and are cleaned up when the window closes.
//
// Example Usage:
//
//	registry := service.NewRegistry().WithMetrics(metrics)
//	registry.Register(terminal.NewProvider())
//	result, err := registry.Execute(ctx, "terminal.run", params, appCtx)
package service
