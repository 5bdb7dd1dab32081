package diag_test

import (
	"testing"

	"github.com/kortho/varta/lang/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyBag(t *testing.T) {
	var bag diag.Bag
	assert.False(t, bag.HasErrors())
	assert.NoError(t, bag.Err())
	assert.Empty(t, bag.Records())
}

func TestWarningsAreNeverFatal(t *testing.T) {
	var bag diag.Bag
	bag.Warnf(3, "something looks off")
	assert.False(t, bag.HasErrors())
	assert.NoError(t, bag.Err())
	assert.Len(t, bag.Records(), 1)
}

func TestErrorsAccumulate(t *testing.T) {
	var bag diag.Bag
	bag.Errorf(10, "first")
	bag.Warnf(5, "just a warning")
	bag.Errorf(2, "second")

	assert.True(t, bag.HasErrors())

	err := bag.Err()
	require.Error(t, err)
	derr, ok := err.(*diag.Error)
	require.True(t, ok)
	require.Len(t, derr.Records, 2, "warnings excluded from Err()")
	// sorted by line
	assert.Equal(t, 2, derr.Records[0].Line)
	assert.Equal(t, 10, derr.Records[1].Line)
}

func TestRecordFormat(t *testing.T) {
	r := diag.Record{Severity: diag.SeverityError, Line: 7, Message: "cannot assign integer to string"}
	assert.Equal(t, "In line 7: cannot assign integer to string", r.String())
}

func TestRecordsSortedStably(t *testing.T) {
	var bag diag.Bag
	bag.Errorf(4, "a")
	bag.Errorf(4, "b")
	bag.Errorf(1, "c")

	recs := bag.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "c", recs[0].Message)
	assert.Equal(t, "a", recs[1].Message, "insertion order preserved within a line")
	assert.Equal(t, "b", recs[2].Message)
}

func TestMerge(t *testing.T) {
	var a, b diag.Bag
	a.Errorf(1, "from a")
	b.Warnf(2, "from b")
	a.Merge(&b)
	a.Merge(nil)
	assert.Len(t, a.Records(), 2)
}

func TestErrorUnwrap(t *testing.T) {
	var bag diag.Bag
	bag.Errorf(1, "x")
	bag.Errorf(2, "y")

	derr := bag.Err().(*diag.Error)
	assert.Len(t, derr.Unwrap(), 2)
	assert.Equal(t, "In line 1: x\nIn line 2: y", derr.Error())
}
