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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dummyTask struct {
	executed atomic.Bool
}

func (d *dummyTask) Execute() {
	d.executed.Store(true)
}

func TestNewStaticWorkerPool_Success(t *testing.T) {
	tests := []struct {
		name               string
		priorityWorker     uint32
		normalWorker       uint32
		expectedPriorityCh int
		expectedNormalCh   int
	}{
		{
			name:               "both worker classes",
			priorityWorker:     2,
			normalWorker:       3,
			expectedPriorityCh: 200,
			expectedNormalCh:   300,
		},
		{
			name:               "zero normal workers",
			priorityWorker:     1,
			normalWorker:       0,
			expectedPriorityCh: 100,
			expectedNormalCh:   0,
		},
		{
			name:               "zero priority workers",
			priorityWorker:     0,
			normalWorker:       4,
			expectedPriorityCh: 0,
			expectedNormalCh:   400,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pool, err := NewStaticWorkerPool(tc.priorityWorker, tc.normalWorker)

			assert.NoError(t, err)
			assert.NotNil(t, pool)
			assert.Equal(t, tc.priorityWorker, pool.priorityWorker)
			assert.Equal(t, tc.normalWorker, pool.normalWorker)
			assert.Equal(t, tc.expectedPriorityCh, cap(pool.priorityCh))
			assert.Equal(t, tc.expectedNormalCh, cap(pool.normalCh))
			pool.Start()
			pool.Stop()
		})
	}
}

func TestNewStaticWorkerPool_Failure(t *testing.T) {
	pool, err := NewStaticWorkerPool(0, 0)

	assert.Error(t, err)
	assert.Nil(t, pool)
}

func TestStaticWorkerPool_SchedulePriorityTask(t *testing.T) {
	pool, err := NewStaticWorkerPool(2, 3)
	require.NoError(t, err)
	pool.Start()
	defer pool.Stop()

	dt := &dummyTask{}
	pool.Schedule(true, dt)

	assert.Eventually(t, func() bool {
		return dt.executed.Load()
	}, 100*time.Millisecond, time.Millisecond, "Task was not executed in time.")
}

func TestStaticWorkerPool_ScheduleNormalTask(t *testing.T) {
	pool, err := NewStaticWorkerPool(2, 3)
	require.NoError(t, err)
	pool.Start()
	defer pool.Stop()

	dt := &dummyTask{}
	pool.Schedule(false, dt)

	require.Eventually(t, func() bool {
		return dt.executed.Load()
	}, 100*time.Millisecond, time.Millisecond, "Task was not executed in time.")
}

func TestStaticWorkerPool_NormalWorkersDrainPriorityQueue(t *testing.T) {
	// No dedicated priority workers; urgent tasks must still run.
	pool, err := NewStaticWorkerPool(0, 2)
	require.NoError(t, err)
	pool.Start()
	defer pool.Stop()

	dt := &dummyTask{}
	pool.Schedule(true, dt)

	assert.Eventually(t, func() bool {
		return dt.executed.Load()
	}, 100*time.Millisecond, time.Millisecond, "Urgent task was not picked up by a normal worker.")
}

func TestStaticWorkerPool_HighNumberOfTasks(t *testing.T) {
	pool, err := NewStaticWorkerPool(5, 10)
	require.NoError(t, err)
	pool.Start()
	defer pool.Stop()

	var executed atomic.Int64
	tasks := make([]*dummyTask, 0, 200)
	for i := range 200 {
		dt := &dummyTask{}
		tasks = append(tasks, dt)
		pool.Schedule(i%2 == 0, dt) // Alternate between priority and normal tasks.
	}

	assert.Eventually(t, func() bool {
		executed.Store(0)
		for _, dt := range tasks {
			if dt.executed.Load() {
				executed.Add(1)
			}
		}
		return executed.Load() == 200
	}, 500*time.Millisecond, 10*time.Millisecond, "Not all tasks were executed in time.")
}

func TestStaticWorkerPool_StopRunsQueuedTasks(t *testing.T) {
	pool, err := NewStaticWorkerPool(1, 1)
	require.NoError(t, err)
	pool.Start()
	tasks := make([]*dummyTask, 50)
	for i := range tasks {
		tasks[i] = &dummyTask{}
		pool.Schedule(false, tasks[i])
	}

	pool.Stop()

	for i, dt := range tasks {
		assert.True(t, dt.executed.Load(), "task %d dropped by Stop", i)
	}
}

func TestStaticWorkerPool_ScheduleAfterStopPanics(t *testing.T) {
	pool, err := NewStaticWorkerPool(2, 3)
	require.NoError(t, err)
	pool.Start()

	pool.Stop()

	assert.Panics(t, func() { pool.Schedule(true, &dummyTask{}) }, "Should panic when scheduling after stop.")
	assert.Panics(t, func() { pool.Schedule(false, &dummyTask{}) }, "Should panic when scheduling after stop.")
}

func TestStaticWorkerPool_TaskPanicDoesNotKillWorker(t *testing.T) {
	pool, err := NewStaticWorkerPool(0, 1)
	require.NoError(t, err)
	pool.Start()
	defer pool.Stop()

	pool.Schedule(false, panicTask{})
	dt := &dummyTask{}
	pool.Schedule(false, dt)

	assert.Eventually(t, func() bool {
		return dt.executed.Load()
	}, 100*time.Millisecond, time.Millisecond, "The worker died on a panicking task.")
}

type panicTask struct{}

func (panicTask) Execute() {
	panic("task panic")
}

func TestNewStaticWorkerPoolForCurrentCPU(t *testing.T) {
	pool, err := NewStaticWorkerPoolForCurrentCPU()

	require.NoError(t, err)
	require.NotNil(t, pool)
	defer pool.Stop()
	dt := &dummyTask{}
	pool.Schedule(true, dt)
	assert.Eventually(t, func() bool { return dt.executed.Load() }, 100*time.Millisecond, time.Millisecond, "Task was not executed in time.")
}
