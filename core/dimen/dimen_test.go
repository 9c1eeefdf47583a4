package dimen

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func TestParseDimen(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "glyphs.core")
	defer teardown()
	//
	d, err := ParseDimen("12pt")
	if err != nil {
		t.Errorf("(1) %s", err.Error())
	} else if d != 12 {
		t.Errorf("(1) expected d to be 12pt, is %g", d)
	}
	//
	d, err = ParseDimen("0")
	if err != nil {
		t.Errorf("(2) %s", err.Error())
	} else if d != 0 {
		t.Errorf("(2) expected d to be 0, is %g", d)
	}
	//
	d, err = ParseDimen("1.5in")
	if err != nil {
		t.Errorf("(3) %s", err.Error())
	} else if d != 108 {
		t.Errorf("(3) expected d to be 108pt, is %g", d)
	}
	//
	if _, err = ParseDimen("12furlong"); err == nil {
		t.Errorf("(4) expected unknown unit to be rejected")
	}
}

func TestRectExtend(t *testing.T) {
	r := EmptyRect()
	assert.True(t, r.Empty())
	assert.Equal(t, 0.0, r.Width())
	r = r.Extend(Rect{Point{1, 2}, Point{3, 5}})
	r = r.Extend(EmptyRect())
	r = r.Include(Point{-1, 4})
	assert.False(t, r.Empty())
	assert.Equal(t, Point{-1, 2}, r.TopL)
	assert.Equal(t, Point{3, 5}, r.BotR)
	assert.Equal(t, Point{4, 3}, r.Size())
}

func TestPixelsPerUnit(t *testing.T) {
	assert.InDelta(t, 0.4, PixelsPerUnit(12, 72, 30), 1e-12)
	assert.InDelta(t, 0.8, PixelsPerUnit(12, 144, 30), 1e-12)
	assert.Equal(t, 0.0, PixelsPerUnit(12, 72, 0))
}
