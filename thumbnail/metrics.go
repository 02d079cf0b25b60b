package thumbnail

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSaved        = "saved"
	resultInvalid      = "invalid"
	resultWrongType    = "wrong_type"
	resultNotFound     = "not_found"
	resultUploadFailed = "upload_failed"
	resultUpdateFailed = "update_failed"
	resultError        = "error"
)

var (
	// SavesTotal counts thumbnail save attempts by outcome.
	SavesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "thumbnail_saves_total",
			Help: "Total number of thumbnail save attempts by result",
		},
		[]string{"result"},
	)

	// UploadBytes observes the decoded size of uploaded thumbnails.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "thumbnail_upload_bytes",
			Help:    "Size of uploaded thumbnail images in bytes",
			Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
		},
	)
)
