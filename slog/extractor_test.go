package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/metascrape"
	"github.com/fwojciec/metascrape/mock"
	msslog "github.com/fwojciec/metascrape/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs metas count at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		title := "T"
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*metascrape.Metadata, error) {
				return &metascrape.Metadata{Title: &title, Metas: metascrape.Metas{
					"a": metascrape.StringValue("1"),
					"b": metascrape.StringValue("2"),
				}}, nil
			},
		}

		extractor := msslog.NewLoggingExtractor(inner, logger)
		md, err := extractor.Extract("<head></head>")

		require.NoError(t, err)
		assert.Len(t, md.Metas, 2)
		output := buf.String()
		assert.Contains(t, output, "extract")
		assert.Contains(t, output, "title=true")
		assert.Contains(t, output, "metas=2")
		assert.Contains(t, output, "bytes=13")
	})

	t.Run("stays quiet at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Extractor{
			ExtractFn: func(html string) (*metascrape.Metadata, error) {
				return &metascrape.Metadata{Metas: metascrape.Metas{}}, nil
			},
		}

		_, err := msslog.NewLoggingExtractor(inner, logger).Extract("")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
