package exports

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/reelmates/reelsync/internal/normalize"
)

// WriteViewingsCSV streams the viewing log as CSV, enriched or not as it
// stands. Zero timestamps export as empty cells.
func WriteViewingsCSV(w io.Writer, viewings []normalize.Viewing) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{
		"id",
		"media_type",
		"external_id",
		"title",
		"watched_at",
		"rating",
		"comment",
		"poster_url",
	}); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, v := range viewings {
		watchedAt := ""
		if !v.WatchedAt.IsZero() {
			watchedAt = v.WatchedAt.Format(time.RFC3339)
		}

		if err := writer.Write([]string{
			v.ID,
			string(v.MediaType),
			v.ExternalID,
			v.Title,
			watchedAt,
			strconv.Itoa(v.Rating),
			v.Comment,
			v.PosterURL,
		}); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
