package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gr-butler/cornfield/telemetry"

	logger "github.com/sirupsen/logrus"
)

type webdata struct {
	TimeNow string `json:"time"`
	telemetry.Reading
}

func (c *controller) handler(rw http.ResponseWriter, r *http.Request) {
	rw.Header().Set("Content-Type", "application/json")
	st, ok := c.loop.Status()
	if !ok {
		http.Error(rw, "no reading yet", http.StatusServiceUnavailable)
		return
	}
	wd := webdata{
		TimeNow: time.Now().Format(time.RFC822),
		Reading: telemetry.NewReading(c.station, st),
	}

	js, err := json.Marshal(wd)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		http.Error(rw, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Debugf("Web read: [%v]", string(js))
	_, _ = rw.Write(js) // not much we can do if this fails
}
