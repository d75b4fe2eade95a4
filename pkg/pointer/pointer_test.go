// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/realty/pkg/pointer"
)

func TestVal(t *testing.T) {
	area := 72.5
	assert.Equal(t, 72.5, pointer.Val(&area))
	assert.Zero(t, pointer.Val[float64](nil))
	assert.Empty(t, pointer.Val[string](nil))
}
