package googleDriveApi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/drive/v3"
)

func TestExpiredFileIDs(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	files := []*drive.File{
		{Id: "old", CreatedTime: "2024-05-08T12:00:00Z"},
		{Id: "fresh", CreatedTime: "2024-05-10T11:00:00Z"},
		{Id: "broken", CreatedTime: "yesterday"},
		{Id: "edge", CreatedTime: "2024-05-09T12:00:00Z"},
	}

	ids := expiredFileIDs(context.Background(), files, now, 24*time.Hour)
	assert.Equal(t, []string{"old"}, ids)
}
