package discord

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"modmail/internal/domain"
)

// fetcher downloads attachments so they can be re-uploaded to the other side.
type fetcher struct {
	http     *http.Client
	maxBytes int64
}

// fetch returns the files that were downloaded and the URLs of those that
// were not, either because they exceed maxBytes or the download failed.
func (f fetcher) fetch(ctx context.Context, attachments []domain.Attachment) ([]*discordgo.File, []string, []error) {
	var (
		files []*discordgo.File
		links []string
		errs  []error
	)
	for _, a := range attachments {
		file, err := f.download(ctx, a)
		if err != nil {
			links = append(links, a.URL)
			errs = append(errs, err)
			continue
		}
		files = append(files, file)
	}
	return files, links, errs
}

func (f fetcher) download(ctx context.Context, a domain.Attachment) (*discordgo.File, error) {
	if f.maxBytes > 0 && int64(a.Size) > f.maxBytes {
		return nil, fmt.Errorf("attachment %s is %d bytes, limit %d", a.Filename, a.Size, f.maxBytes)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", a.Filename, err)
	}
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", a.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %s", a.Filename, resp.Status)
	}

	body := io.Reader(resp.Body)
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes+1)
	}
	var buf bytes.Buffer
	n, err := buf.ReadFrom(body)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", a.Filename, err)
	}
	if f.maxBytes > 0 && n > f.maxBytes {
		return nil, fmt.Errorf("attachment %s exceeds %d bytes", a.Filename, f.maxBytes)
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}
	return &discordgo.File{Name: a.Filename, ContentType: contentType, Reader: &buf}, nil
}
