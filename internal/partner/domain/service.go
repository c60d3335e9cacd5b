package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, partner *Partner) error
	Update(ctx context.Context, id snowflake.ID, patch Update) (*Partner, error)
	Get(ctx context.Context, id snowflake.ID) (*Partner, error)
	FindByCode(ctx context.Context, bpNumber string) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
}
