package steps

import (
	"context"
)

type Step interface {
	Name() string
	Run(ctx context.Context, dataCtx DataContext) error
}

type DataContext map[string]string

const (
	SchemaVersionKey = "schema_version"
	AdminUserIDKey   = "admin_user_id"
)
