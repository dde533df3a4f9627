package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/gr-butler/cornfield/control"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

const ThingSpeakURL = "https://api.thingspeak.com/update.json"

type thingSpeakUpdate struct {
	APIKey     string   `url:"api_key"`
	Humidity   *float64 `url:"field1,omitempty"`
	PH         float64  `url:"field2"`
	Phosphorus int      `url:"field3"`
	Potassium  int      `url:"field4"`
	Irrigating int      `url:"field5"`
}

// Uploader pushes the latest reading to a ThingSpeak channel. The free tier
// rejects updates closer than 15s apart, cycles inside minInterval of the
// last upload are skipped.
type Uploader struct {
	url         string
	apiKey      string
	client      *http.Client
	clock       clockwork.Clock
	minInterval time.Duration

	lock     sync.Mutex
	last     time.Time
	sent     bool
	inFlight sync.WaitGroup
}

func NewUploader(url, apiKey string, clock clockwork.Clock, minInterval time.Duration) *Uploader {
	return &Uploader{
		url:         url,
		apiKey:      apiKey,
		client:      &http.Client{Timeout: 30 * time.Second},
		clock:       clock,
		minInterval: minInterval,
	}
}

func (u *Uploader) Observe(st control.Status) {
	if !u.due() {
		return
	}
	r := NewReading("", st)
	u.inFlight.Add(1)
	go func() {
		defer u.inFlight.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := u.Upload(ctx, r); err != nil {
			logger.Errorf("ThingSpeak upload failed [%v]", err)
		}
	}()
}

// Close waits for uploads already started. Observe must not be called
// afterwards.
func (u *Uploader) Close() {
	u.inFlight.Wait()
}

func (u *Uploader) due() bool {
	u.lock.Lock()
	defer u.lock.Unlock()
	now := u.clock.Now()
	if u.sent && now.Sub(u.last) < u.minInterval {
		return false
	}
	u.last = now
	u.sent = true
	return true
}

// Upload posts one reading as a form encoded update.
func (u *Uploader) Upload(ctx context.Context, r Reading) error {
	vals, err := query.Values(thingSpeakUpdate{
		APIKey:     u.apiKey,
		Humidity:   r.Humidity,
		PH:         r.PH,
		Phosphorus: percent(r.Phosphorus),
		Potassium:  percent(r.Potassium),
		Irrigating: percent(r.Irrigating),
	})
	if err != nil {
		return fmt.Errorf("encode update: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, strings.NewReader(vals.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")

	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP [%v]", resp.Status)
	}
	logger.Debugf("ThingSpeak accepted cycle %d", r.Cycle)
	return nil
}

func percent(b bool) int {
	if b {
		return 100
	}
	return 0
}
