package transit

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberListMatchesMultisetModel(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	users := []*recordingUser{newRecordingUser(), newRecordingUser(), newRecordingUser()}

	for round := 0; round < 50; round++ {
		var list subscriberList
		model := map[Identity]int{}
		for op := 0; op < 30; op++ {
			u := users[rng.Intn(len(users))]
			if rng.Intn(3) == 0 {
				list.remove(u)
				delete(model, u.Identity())
			} else {
				list.add(u)
				model[u.Identity()]++
			}
		}

		got := map[Identity]int{}
		for _, u := range list.snapshot() {
			got[u.Identity()]++
		}
		assert.Equal(t, model, got)
	}
}

func TestSubscriberListRemoveAbsentIsNoop(t *testing.T) {
	var list subscriberList
	u := newRecordingUser()
	list.add(u)

	assert.Equal(t, 0, list.remove(newRecordingUser()))
	assert.Len(t, list.snapshot(), 1)
	assert.Equal(t, 1, list.remove(u))
	assert.Equal(t, 0, list.remove(u))
	assert.Empty(t, list.snapshot())
}
