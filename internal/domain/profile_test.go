package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, GenderMen, NormalizeGender("Male"))
	assert.Equal(t, GenderWomen, NormalizeGender("Female"))
	assert.Equal(t, GenderMen, NormalizeGender("Men"))
	assert.Equal(t, GenderWomen, NormalizeGender("Women"))
	assert.Equal(t, GenderOther, NormalizeGender("nonsense"))
	assert.Equal(t, GenderOther, NormalizeGender(""))
}

func TestOppositeGender(t *testing.T) {
	g, ok := OppositeGender(GenderMen)
	assert.True(t, ok)
	assert.Equal(t, GenderWomen, g)

	g, ok = OppositeGender(GenderWomen)
	assert.True(t, ok)
	assert.Equal(t, GenderMen, g)

	_, ok = OppositeGender(GenderOther)
	assert.False(t, ok)
}

func TestCurrentAge(t *testing.T) {
	p := &Profile{Age: 30}
	assert.Equal(t, 30, p.CurrentAge())

	dob := time.Now().AddDate(-25, 0, -1)
	p.DOB = &dob
	assert.Equal(t, 25, p.CurrentAge())

	// Birthday later this year: not 25 yet.
	dob = time.Now().AddDate(-25, 0, 10)
	p.DOB = &dob
	assert.Equal(t, 24, p.CurrentAge())
}

func TestInteractionHelpers(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	in := &Interaction{ActorID: a, TargetID: b, UnreadActor: 2, UnreadTarget: 5}

	assert.True(t, in.HasUser(a))
	assert.True(t, in.HasUser(b))
	assert.False(t, in.HasUser(c))

	other, ok := in.OtherID(a)
	assert.True(t, ok)
	assert.Equal(t, b, other)

	_, ok = in.OtherID(c)
	assert.False(t, ok)

	assert.Equal(t, 2, in.UnreadFor(a))
	assert.Equal(t, 5, in.UnreadFor(b))
}
