package shrinker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `com.example.UnusedClass
com.example.PartiallyUsedClass
    int unusedField
    void unusedMethod(java.lang.String)
    PartiallyUsedClass(int,int)
com.example.AnotherDead
`

func TestParseWholeClassEntries(t *testing.T) {
	u, err := Parse(sample)
	require.NoError(t, err)

	assert.True(t, u.IsClassDead("com.example.UnusedClass"))
	assert.True(t, u.IsClassDead("com.example.AnotherDead"))
	// a class with member entries is only partially dead
	assert.False(t, u.IsClassDead("com.example.PartiallyUsedClass"))
}

func TestParseMembers(t *testing.T) {
	u, err := Parse(sample)
	require.NoError(t, err)

	assert.True(t, u.IsMemberDead("com.example.PartiallyUsedClass", "unusedField", -1))
	assert.True(t, u.IsMemberDead("com.example.PartiallyUsedClass", "unusedMethod", 1))
	assert.False(t, u.IsMemberDead("com.example.PartiallyUsedClass", "usedMethod", -1))
}

func TestMethodArityMatching(t *testing.T) {
	u, err := Parse(sample)
	require.NoError(t, err)

	// unusedMethod takes one parameter; a two-argument lookup must miss
	assert.False(t, u.IsMemberDead("com.example.PartiallyUsedClass", "unusedMethod", 2))
	// unknown arity matches any
	assert.True(t, u.IsMemberDead("com.example.PartiallyUsedClass", "unusedMethod", -1))
}

func TestConstructorEntries(t *testing.T) {
	u, err := Parse(sample)
	require.NoError(t, err)
	assert.True(t, u.IsMemberDead("com.example.PartiallyUsedClass", "PartiallyUsedClass", -1))
}

func TestTotalCount(t *testing.T) {
	u, err := Parse(sample)
	require.NoError(t, err)
	// 2 whole classes + 3 members
	assert.Equal(t, 5, u.Total)
}

func TestEmptyInput(t *testing.T) {
	u, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, 0, u.Total)
	assert.False(t, u.IsClassDead("anything"))
}
