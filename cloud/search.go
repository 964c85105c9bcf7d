/*
Copyright © 2024 the SWxSOC authors.
This file is part of the SWxSOC data tools.

The SWxSOC data tools are free software: you can redistribute them and/or
modify them under the terms of the GNU General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

The SWxSOC data tools are distributed in the hope that they will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with the SWxSOC data tools.  If not, see <http://www.gnu.org/licenses/>.
*/

package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"

	"github.com/swxsoc/swxsoc/swxutil"
)

// Query selects data products. Zero fields match everything: an empty
// Instrument searches all instruments, empty Levels every valid level,
// and zero times the full mission archive.
type Query struct {
	Instrument string
	Levels     []string
	Start      time.Time
	End        time.Time
}

// Result is one data product found in a bucket.
type Result struct {
	Key        string
	Size       int64
	ModTime    time.Time
	Instrument string
	Mode       string
	Level      string
	Version    string
	Descriptor string
	Test       bool
	Time       time.Time
}

// Client searches for and fetches mission data products. Products are
// laid out in the bucket as {level}/{year}/{month}/{filename}.
type Client struct {
	Bucket *blob.Bucket
	Config *swxutil.Config
	Log    logrus.FieldLogger
}

// NewClient builds a search client over an open bucket.
func NewClient(bucket *blob.Bucket, cfg *swxutil.Config) *Client {
	if cfg == nil {
		cfg = swxutil.DefaultConfig()
	}
	return &Client{Bucket: bucket, Config: cfg, Log: logrus.StandardLogger()}
}

// Search lists the data products matching q.
func (c *Client) Search(ctx context.Context, q Query) ([]Result, error) {
	levels := q.Levels
	for _, level := range levels {
		if !c.Config.ValidLevel(level) {
			return nil, fmt.Errorf("cloud: invalid data level: %s", level)
		}
	}
	if len(levels) == 0 {
		levels = c.Config.ValidDataLevels
	}
	start := q.Start
	if start.IsZero() {
		start = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	end := q.End
	if end.IsZero() {
		end = time.Now().UTC()
	}

	prefixes := generatePrefixes(levels, start, end)
	c.Log.WithFields(logrus.Fields{
		"levels":   levels,
		"start":    start,
		"end":      end,
		"prefixes": len(prefixes),
	}).Info("searching for data products")

	var results []Result
	for _, prefix := range prefixes {
		iter := c.Bucket.List(&blob.ListOptions{Prefix: prefix})
		for {
			obj, err := iter.Next(ctx)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("cloud: listing %s: %v", prefix, err)
			}
			r := Result{Key: obj.Key, Size: obj.Size, ModTime: obj.ModTime}
			if d, err := swxutil.ParseScienceFilename(c.Config, path.Base(obj.Key)); err == nil {
				r.Instrument = d.Instrument
				r.Mode = d.Mode
				r.Level = d.Level
				r.Version = d.Version
				r.Descriptor = d.Descriptor
				r.Test = d.Test
				r.Time = d.Time
			}
			if q.Instrument != "" && !strings.EqualFold(r.Instrument, q.Instrument) {
				continue
			}
			if !r.Time.IsZero() && (r.Time.Before(start) || r.Time.After(end)) {
				continue
			}
			results = append(results, r)
		}
	}
	c.Log.WithField("count", len(results)).Info("search complete")
	return results, nil
}

// generatePrefixes returns one {level}/{year}/{month}/ prefix per level
// per month in the time span.
func generatePrefixes(levels []string, start, end time.Time) []string {
	var prefixes []string
	cur := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		for _, level := range levels {
			prefixes = append(prefixes, fmt.Sprintf("%s/%d/%02d/", level, cur.Year(), int(cur.Month())))
		}
		cur = cur.AddDate(0, 1, 0)
	}
	return prefixes
}

// Fetch downloads a data product into dir, returning the local path.
func (c *Client) Fetch(ctx context.Context, key, dir string) (string, error) {
	r, err := c.Bucket.NewReader(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cloud: opening %s: %v", key, err)
	}
	defer r.Close()

	dest := filepath.Join(dir, path.Base(key))
	w, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("cloud: fetching %s: %v", key, err)
	}
	defer w.Close()
	if _, err := io.Copy(w, r); err != nil {
		return "", fmt.Errorf("cloud: fetching %s: %v", key, err)
	}
	c.Log.WithFields(logrus.Fields{"key": key, "path": dest}).Info("fetched data product")
	return dest, nil
}

// Upload stores a local data product in the bucket under the
// {level}/{year}/{month}/ layout derived from its filename.
func (c *Client) Upload(ctx context.Context, localPath string) (string, error) {
	d, err := swxutil.ParseScienceFilename(c.Config, filepath.Base(localPath))
	if err != nil {
		return "", fmt.Errorf("cloud: uploading %s: %v", localPath, err)
	}
	key := fmt.Sprintf("%s/%d/%02d/%s", d.Level, d.Time.Year(), int(d.Time.Month()), filepath.Base(localPath))

	r, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("cloud: uploading %s: %v", localPath, err)
	}
	defer r.Close()
	w, err := c.Bucket.NewWriter(ctx, key, nil)
	if err != nil {
		return "", fmt.Errorf("cloud: uploading %s: %v", localPath, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("cloud: uploading %s: %v", localPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("cloud: uploading %s: %v", localPath, err)
	}
	c.Log.WithFields(logrus.Fields{"path": localPath, "key": key}).Info("uploaded data product")
	return key, nil
}
