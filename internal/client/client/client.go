package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/vidgallery/internal/client/models"
)

// ProgressFunc receives upload progress as an integer percentage. Values
// never decrease and the last one is 100.
type ProgressFunc func(percent int)

type Client interface {
	List(ctx context.Context) (models.Envelope[[]models.Video], error)
	Create(ctx context.Context, title string, file models.UploadFile, progress ProgressFunc) (models.Envelope[models.Video], error)
	Update(ctx context.Context, id, title string) (models.Envelope[models.Video], error)
	Delete(ctx context.Context, id string) (models.Envelope[json.RawMessage], error)
}
