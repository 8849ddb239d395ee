package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const writeQueueSize = 64

type writeRequest struct {
	snapshot map[string]string
	ack      chan error
}

// logWriter owns the store on a single goroutine. Requests are handled in
// the order they were enqueued, so the newest snapshot is always the one
// left in storage.
type logWriter struct {
	store    LogStore
	logger   logrus.FieldLogger
	requests chan writeRequest
	done     chan struct{}
	once     sync.Once
}

func newLogWriter(store LogStore, logger logrus.FieldLogger) *logWriter {
	writer := &logWriter{
		store:    store,
		logger:   logger,
		requests: make(chan writeRequest, writeQueueSize),
		done:     make(chan struct{}),
	}
	go writer.run()
	return writer
}

func (writer *logWriter) run() {
	defer close(writer.done)

	var lastErr error
	for request := range writer.requests {
		if request.snapshot != nil {
			if err := writer.store.Save(context.Background(), request.snapshot); err != nil {
				writer.logger.WithError(err).WithField("entries", len(request.snapshot)).Error("persist cycle log failed")
				lastErr = err
			} else {
				lastErr = nil
			}
		}
		if request.ack != nil {
			request.ack <- lastErr
		}
	}
}

// enqueue must be called with the log's write lock held to keep ordering.
func (writer *logWriter) enqueue(snapshot map[string]string) {
	writer.requests <- writeRequest{snapshot: snapshot}
}

func (writer *logWriter) flush(ctx context.Context) error {
	ack := make(chan error, 1)
	select {
	case writer.requests <- writeRequest{ack: ack}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-ack:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (writer *logWriter) close() {
	writer.once.Do(func() {
		close(writer.requests)
	})
	<-writer.done
}
