// Copyright 2016 Aleksandr Demakin. All rights reserved.

package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunMissingTestApp(t *testing.T) {
	result := RunTestApp([]string{"./no/such/program.go"}, nil)
	assert.Error(t, result.Err)
	assert.NotEmpty(t, result.Output)
}

func TestWaitForAppResultChanTimeout(t *testing.T) {
	ch := make(chan TestAppResult)
	_, ok := WaitForAppResultChan(ch, 10*time.Millisecond)
	assert.False(t, ok)
}

func TestWaitForAppResultChan(t *testing.T) {
	ch := make(chan TestAppResult, 1)
	ch <- TestAppResult{Output: "done"}
	result, ok := WaitForAppResultChan(ch, time.Second)
	assert.True(t, ok)
	assert.Equal(t, "done", result.Output)
}
