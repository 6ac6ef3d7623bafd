package orgs

import "errors"

var (
	ErrTemplateNotFound  = errors.New("organization template not found")
	ErrDuplicateTemplate = errors.New("a template already exists for that organization")
)
