// Package cpu implements a tracer that answers ray queries on the CPU using
// the octree index.
package cpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/achilleasa/minilight/log"
	"github.com/achilleasa/minilight/tracer"
)

var (
	ErrNoSceneData = errors.New("cpu tracer: no scene data uploaded")
)

type cpuTracer struct {
	logger log.Logger

	sync.Mutex
	wg sync.WaitGroup

	// The tracer id.
	id string

	// A buffer for queuing updates. Updates are grouped by type and
	// latest updates always overwrite the previous ones.
	updateBuffer map[tracer.UpdateType]interface{}

	// A channel for receiving block requests.
	blockReqChan chan tracer.BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	// Statistics for last frame.
	stats *tracer.Stats

	// The uploaded scene data.
	sceneData *tracer.Scene

	// Set to cross-check every query against a brute-force scan.
	verify bool
}

// Create a new cpu tracer.
func NewTracer(id string) tracer.Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		blockReqChan: make(chan tracer.BlockRequest, 0),
		updateBuffer: make(map[tracer.UpdateType]interface{}, 0),
		stats:        &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// All cpu tracers share the same speed estimate.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

// Initialize tracer.
func (tr *cpuTracer) Init() error {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		tr.startWorker()
	}
	return nil
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	closeChan := tr.closeChan
	tr.closeChan = nil
	tr.Unlock()

	// If the worker is running shut it down
	if closeChan != nil {
		closeChan <- struct{}{}

		// wait for worker to ack close and shutdown channel
		<-closeChan
		close(closeChan)
	}
	tr.wg.Wait()

	tr.sceneData = nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq tracer.BlockRequest) {
	tr.blockReqChan <- blockReq
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) Update(updateType tracer.UpdateType, data interface{}) {
	tr.Lock()
	defer tr.Unlock()

	tr.updateBuffer[updateType] = data
}

// Reset frame statistics.
func (tr *cpuTracer) ResetStats() {
	*tr.stats = tracer.Stats{}
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Commit queued changes.
func (tr *cpuTracer) commitUpdates() error {
	tr.Lock()
	defer tr.Unlock()

	for updateType, data := range tr.updateBuffer {
		switch updateType {
		case tracer.UpdateScene:
			sc, ok := data.(*tracer.Scene)
			if !ok || sc == nil || sc.Index == nil {
				return ErrNoSceneData
			}
			tr.sceneData = sc
			tr.logger.Debugf("uploaded scene with %d triangles and %d emitters", sc.Index.Len(), len(sc.Emitters))
		case tracer.UpdateVerification:
			verify, ok := data.(bool)
			if !ok {
				return fmt.Errorf("cpu tracer: invalid payload %T for verification update", data)
			}
			tr.verify = verify
		default:
			return fmt.Errorf("cpu tracer: unsupported update type %d", updateType)
		}
	}

	tr.updateBuffer = make(map[tracer.UpdateType]interface{}, 0)
	return nil
}

// Spawn a go-routine to process block requests.
func (tr *cpuTracer) startWorker() {
	closeChan := make(chan struct{}, 0)
	tr.closeChan = closeChan

	readyChan := make(chan struct{}, 0)
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		var blockReq tracer.BlockRequest
		var startTime time.Time
		var err error
		close(readyChan)
		for {
			select {
			case blockReq = <-tr.blockReqChan:

				// Apply any pending changes
				startTime = time.Now()
				if tr.hasPendingUpdates() {
					err = tr.commitUpdates()
					if err != nil {
						blockReq.ErrChan <- err
						continue
					}
					tr.stats.UpdateTime += time.Since(startTime)
					startTime = time.Now()
				}

				if tr.sceneData == nil {
					blockReq.ErrChan <- ErrNoSceneData
					continue
				}

				// Trace block and reply with our completion status
				res := traceBlock(tr.sceneData, &blockReq, tr.verify)

				// Update stats
				tr.stats.Blocks++
				tr.stats.Counters.Add(res.Counters)
				tr.stats.RenderTime += time.Since(startTime)

				blockReq.DoneChan <- res
			case <-closeChan:
				// Ack close
				closeChan <- struct{}{}
				return
			}
		}
	}()

	// Wait for go-routine to start
	<-readyChan
}

func (tr *cpuTracer) hasPendingUpdates() bool {
	tr.Lock()
	defer tr.Unlock()
	return len(tr.updateBuffer) != 0
}
