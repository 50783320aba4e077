package service

import (
	"bytes"
	"context"
	"image"
	"sync"
	"time"

	// Registered formats for the mirror's dimension probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/go-resty/resty/v2"
	"github.com/seele/swipefeed/internal/domain"
	"github.com/seele/swipefeed/internal/logger"
	"github.com/seele/swipefeed/internal/storage"
)

const mirrorKeyPrefix = "images/"

type mirrorOp int

const (
	mirrorSave mirrorOp = iota
	mirrorDelete
)

type mirrorJob struct {
	op  mirrorOp
	id  string
	url string
}

// MirrorService copies the bytes of cached images into object storage so a
// saved item survives its upstream disappearing, and removes the copy when
// the item is uncached. Work is handed to background workers; enqueueing
// never blocks the toggle path — jobs are dropped when the queue is full.
type MirrorService struct {
	store   storage.ObjectStorage
	client  *resty.Client
	jobs    chan mirrorJob
	wg      sync.WaitGroup
	timeout time.Duration
}

// NewMirrorService creates a mirror service and starts its workers.
// Parameters:
//   - store: object storage the image bytes are mirrored to.
//   - workers: number of background workers; values below 1 become 1.
// Returns:
//   - *MirrorService: running mirror service.
func NewMirrorService(store storage.ObjectStorage, workers int) *MirrorService {
	if workers < 1 {
		workers = 1
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)

	s := &MirrorService{
		store:   store,
		client:  client,
		jobs:    make(chan mirrorJob, 256),
		timeout: 60 * time.Second,
	}

	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

// EnqueueSave requests a background mirror of the image's bytes.
// Parameters:
//   - img: cached item whose URL will be downloaded.
// Returns: none; the job is dropped with a warning if the queue is full.
func (s *MirrorService) EnqueueSave(img domain.ImageData) {
	s.enqueue(mirrorJob{op: mirrorSave, id: img.ID, url: img.URL})
}

// EnqueueDelete requests background removal of a mirrored object.
// Parameters:
//   - id: image id whose mirror object is removed.
// Returns: none; the job is dropped with a warning if the queue is full.
func (s *MirrorService) EnqueueDelete(id string) {
	s.enqueue(mirrorJob{op: mirrorDelete, id: id})
}

func (s *MirrorService) enqueue(job mirrorJob) {
	select {
	case s.jobs <- job:
	default:
		logger.Warn("mirror queue full, dropping job for image %s", job.id)
	}
}

// Close stops accepting jobs, drains the queue, and waits for the workers.
// Called once at graceful shutdown.
func (s *MirrorService) Close() {
	close(s.jobs)
	s.wg.Wait()
}

func (s *MirrorService) worker() {
	defer s.wg.Done()
	for job := range s.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		switch job.op {
		case mirrorSave:
			s.save(ctx, job)
		case mirrorDelete:
			s.delete(ctx, job)
		}
		cancel()
	}
}

func (s *MirrorService) save(ctx context.Context, job mirrorJob) {
	start := time.Now()

	resp, err := s.client.R().SetContext(ctx).Get(job.url)
	if err != nil {
		logger.CtxWarn(ctx, "mirror download for %s failed: %v", job.id, err)
		return
	}
	if resp.IsError() {
		logger.CtxWarn(ctx, "mirror download for %s returned HTTP %d", job.id, resp.StatusCode())
		return
	}

	data := resp.Body()
	contentType := resp.Header().Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fields := logger.Fields{
		logger.FieldImageID:    job.id,
		logger.FieldSize:       len(data),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}
	// Dimensions are informational; probe failures are tolerated
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		fields["width"] = cfg.Width
		fields["height"] = cfg.Height
	}

	key := mirrorKeyPrefix + job.id
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		logger.CtxWarn(ctx, "mirror upload for %s failed: %v", job.id, err)
		return
	}
	logger.With(fields).Info(ctx, "mirrored image %s", job.id)
}

func (s *MirrorService) delete(ctx context.Context, job mirrorJob) {
	key := mirrorKeyPrefix + job.id
	if err := s.store.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "mirror delete for %s failed: %v", job.id, err)
		return
	}
	logger.CtxDebug(ctx, "removed mirrored image %s", job.id)
}
