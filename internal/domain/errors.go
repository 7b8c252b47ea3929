package domain

import "errors"

var (
	ErrDeveloperExists   = errors.New("developer already exists")
	ErrDeveloperNotFound = errors.New("developer not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrNotAssigned       = errors.New("developer not assigned to project")
	ErrInvalidArgument   = errors.New("invalid argument")
)
