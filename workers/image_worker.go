package workers

import (
	"bytes"
	"context"
	"log"
	"sync"
	"time"

	"github.com/camden-git/facerankbackend/blob"
	"github.com/camden-git/facerankbackend/media"
	"github.com/camden-git/facerankbackend/repository"
)

// TaskType constants
const (
	TaskThumbnail = "thumbnail"
	TaskMetadata  = "metadata"
)

const taskTimeout = 30 * time.Second

// ImageJob carries the uploaded image's row ID and original bytes; the bytes
// are already in memory from the upload request, so workers never re-fetch
// from the blob store.
type ImageJob struct {
	ImageID  uint
	Data     []byte
	TaskType string
}

// ImageProcessor runs thumbnail generation and metadata extraction in the
// background. Task results are additive display data: API responses never
// wait on them.
type ImageProcessor struct {
	JobQueue chan ImageJob
	Store    blob.Store
	Images   repository.ImageRepositoryInterface
	MaxSize  int
	Wg       sync.WaitGroup
	StopChan chan struct{}
}

func NewImageProcessor(store blob.Store, images repository.ImageRepositoryInterface, thumbMaxSize, queueSize, numWorkers int) *ImageProcessor {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	proc := &ImageProcessor{
		JobQueue: make(chan ImageJob, queueSize),
		Store:    store,
		Images:   images,
		MaxSize:  thumbMaxSize,
		StopChan: make(chan struct{}),
	}
	proc.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go proc.worker(i)
	}
	log.Printf("Started %d image processing worker(s) with queue size %d", numWorkers, queueSize)
	return proc
}

// Enqueue schedules thumbnail and metadata tasks for an uploaded image.
// A full queue drops the jobs; the image's task statuses stay pending.
func (ip *ImageProcessor) Enqueue(imageID uint, data []byte) {
	for _, taskType := range []string{TaskThumbnail, TaskMetadata} {
		job := ImageJob{ImageID: imageID, Data: data, TaskType: taskType}
		select {
		case ip.JobQueue <- job:
		default:
			log.Printf("WARNING: image job queue full, dropping %s task for image %d", taskType, imageID)
		}
	}
}

// Stop signals all workers and waits for them to finish their current job.
func (ip *ImageProcessor) Stop() {
	close(ip.StopChan)
	ip.Wg.Wait()
}

func (ip *ImageProcessor) worker(id int) {
	defer ip.Wg.Done()

	log.Printf("Image worker %d started", id)
	for {
		select {
		case job, ok := <-ip.JobQueue:
			if !ok {
				log.Printf("Image worker %d stopping: Job queue closed", id)
				return
			}

			statusColumn := job.TaskType + "_status"
			if err := ip.Images.MarkTaskProcessing(job.ImageID, statusColumn); err != nil {
				log.Printf("Worker %d: ERROR marking %s processing for image %d: %v. Skipping job.", id, job.TaskType, job.ImageID, err)
				continue
			}

			switch job.TaskType {
			case TaskThumbnail:
				ip.processThumbnailTask(job)
			case TaskMetadata:
				ip.processMetadataTask(job)
			default:
				log.Printf("Worker %d: ERROR unknown task type '%s' for image %d", id, job.TaskType, job.ImageID)
			}

		case <-ip.StopChan:
			log.Printf("Image worker %d stopping: Stop signal received", id)
			return
		}
	}
}

func (ip *ImageProcessor) processThumbnailTask(job ImageJob) {
	ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
	defer cancel()

	img, err := media.Decode(job.Data)
	if err != nil {
		ip.recordThumbnailResult(job.ImageID, nil, err)
		return
	}

	thumbBytes, err := media.Thumbnail(img, ip.MaxSize)
	if err != nil {
		ip.recordThumbnailResult(job.ImageID, nil, err)
		return
	}

	obj, err := ip.Store.Upload(ctx, blob.AssetTypeThumbnail, blob.RandomFilename(".jpg"), bytes.NewReader(thumbBytes), "image/jpeg")
	if err != nil {
		ip.recordThumbnailResult(job.ImageID, nil, err)
		return
	}

	ip.recordThumbnailResult(job.ImageID, &obj, nil)
}

func (ip *ImageProcessor) recordThumbnailResult(imageID uint, obj *blob.Object, taskErr error) {
	var thumbURL, thumbKey *string
	if obj != nil {
		thumbURL = &obj.URL
		thumbKey = &obj.Key
	}
	if err := ip.Images.UpdateThumbnailResult(imageID, thumbURL, thumbKey, taskErr); err != nil {
		log.Printf("ERROR recording thumbnail result for image %d: %v", imageID, err)
	}
	if taskErr != nil {
		log.Printf("ERROR generating thumbnail for image %d: %v", imageID, taskErr)
	}
}

func (ip *ImageProcessor) processMetadataTask(job ImageJob) {
	meta, metaErr := media.ExtractMetadata(job.Data)
	if err := ip.Images.UpdateMetadataResult(job.ImageID, meta, metaErr); err != nil {
		log.Printf("ERROR recording metadata result for image %d: %v", job.ImageID, err)
	}
}
