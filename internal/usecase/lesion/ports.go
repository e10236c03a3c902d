package lesion

import (
	"context"
	"time"

	domain "github.com/GHanamaAhmed/cancer-detection/internal/domain/lesion"
	"github.com/GHanamaAhmed/cancer-detection/internal/notify"
)

type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Analyzer interface {
	Analyze(ctx context.Context, image []byte, format, bodySite, notes string) (*domain.Analysis, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID uint, n notify.Notification)
}

// URLTTL is how long presigned image links stay valid.
const URLTTL = 15 * time.Minute
