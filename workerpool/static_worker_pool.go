// Copyright 2025 The columnio Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package workerpool

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/columnio/columnio/internal/logger"
)

// Per-worker queue depth. Schedule blocks once the backlog for a class of
// workers exceeds workers * queueFactor.
const queueFactor = 100

// staticWorkerPool runs a fixed set of workers over two bounded queues.
// Urgent tasks go to dedicated priority workers; normal workers drain the
// priority queue first before picking up normal work.
type staticWorkerPool struct {
	priorityWorker uint32
	normalWorker   uint32

	priorityCh chan Task
	normalCh   chan Task
	stop       chan bool
	wg         sync.WaitGroup
}

// NewStaticWorkerPool creates a pool with the given worker counts. At least
// one worker is required.
func NewStaticWorkerPool(priorityWorker, normalWorker uint32) (*staticWorkerPool, error) {
	if priorityWorker+normalWorker == 0 {
		return nil, fmt.Errorf("invalid worker pool configuration: priorityWorker %d, normalWorker %d", priorityWorker, normalWorker)
	}
	return &staticWorkerPool{
		priorityWorker: priorityWorker,
		normalWorker:   normalWorker,
		priorityCh:     make(chan Task, int(priorityWorker)*queueFactor),
		normalCh:       make(chan Task, int(normalWorker)*queueFactor),
		stop:           make(chan bool),
	}, nil
}

// NewStaticWorkerPoolForCurrentCPU sizes the pool off the machine, reserving
// roughly a tenth of the workers for urgent tasks.
func NewStaticWorkerPoolForCurrentCPU() (WorkerPool, error) {
	totalWorkers := 3 * runtime.NumCPU()
	priorityWorkers := (totalWorkers + 9) / 10
	normalWorkers := totalWorkers - priorityWorkers
	pool, err := NewStaticWorkerPool(uint32(priorityWorkers), uint32(normalWorkers))
	if err != nil {
		return nil, err
	}
	pool.Start()
	return pool, nil
}

func (p *staticWorkerPool) Start() {
	for i := uint32(0); i < p.priorityWorker; i++ {
		p.wg.Add(1)
		go p.priorityWorkerRun()
	}
	for i := uint32(0); i < p.normalWorker; i++ {
		p.wg.Add(1)
		go p.normalWorkerRun()
	}
}

// Stop waits for in-flight tasks to finish and closes the queues. Scheduling
// after Stop panics.
func (p *staticWorkerPool) Stop() {
	close(p.stop)
	p.wg.Wait()
	close(p.priorityCh)
	close(p.normalCh)
}

func (p *staticWorkerPool) Schedule(urgent bool, task Task) {
	if urgent {
		p.priorityCh <- task
		return
	}
	p.normalCh <- task
}

func (p *staticWorkerPool) priorityWorkerRun() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			p.drain(p.priorityCh)
			return
		case task := <-p.priorityCh:
			execute(task)
		}
	}
}

func (p *staticWorkerPool) normalWorkerRun() {
	defer p.wg.Done()
	for {
		// Prefer urgent work when both queues are non-empty.
		select {
		case task := <-p.priorityCh:
			execute(task)
			continue
		default:
		}

		select {
		case <-p.stop:
			p.drain(p.priorityCh)
			p.drain(p.normalCh)
			return
		case task := <-p.priorityCh:
			execute(task)
		case task := <-p.normalCh:
			execute(task)
		}
	}
}

// drain runs whatever was queued before Stop was requested.
func (p *staticWorkerPool) drain(ch chan Task) {
	for {
		select {
		case task := <-ch:
			execute(task)
		default:
			return
		}
	}
}

func execute(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("worker pool task panicked: %v", r)
		}
	}()
	task.Execute()
}
