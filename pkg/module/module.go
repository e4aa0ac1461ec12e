// Package module defines the types shared between powar configurations and the engine
// that runs them.
package module

import "context"

// Action is the work performed by a module or by a global pre/post hook.
type Action func(ctx context.Context, api API) error

// Module is a named, path-scoped unit of setup work.
type Module struct {
	// Name identifies the module for selection and dependency checks.
	Name string
	// Path is the directory relative paths resolve against inside Action.
	Path string
	// DependsOn lists modules that must be registered for this one to run.
	// It is an existence check only and does not order execution.
	DependsOn []string
	Action    Action
}

// GlobalConfig is the root of a powar configuration.
type GlobalConfig struct {
	RootPath   string
	Modules    []Module
	PreAction  Action
	PostAction Action
}

// New declares a module constructor parameterised by vars.
func New[T any](fn func(vars T) Module) func(vars T) Module {
	return fn
}

// Produce declares a helper that derives a value from module vars and the module API.
func Produce[T, U any](fn func(vars T, api API) U) func(vars T, api API) U {
	return fn
}
