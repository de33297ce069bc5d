package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

var videoClient = resty.New().SetTimeout(10 * time.Second)

// ProbeVideoURL checks that a lesson video URL is reachable. The result is
// only logged; an unreachable URL never blocks the lesson write.
func ProbeVideoURL(videoURL string) {
	if videoURL == "" {
		return
	}

	resp, err := videoClient.R().Head(videoURL)
	if err != nil {
		log.Printf("Video URL probe failed for %s: %v", videoURL, err)
		return
	}

	if resp.StatusCode() >= 400 {
		log.Printf("Video URL probe for %s returned status %d", videoURL, resp.StatusCode())
	}
}
