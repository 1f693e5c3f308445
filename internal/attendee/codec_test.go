package attendee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTshirtCodec(t *testing.T) {
	assert.Equal(t, "m3XL", tshirtFromAPI("3XL"))
	assert.Equal(t, "m4XL", tshirtFromAPI("4XL"))
	assert.Equal(t, "XL", tshirtFromAPI("XL"))

	assert.Equal(t, "3XL", tshirtToAPI("m3XL"))
	assert.Equal(t, "4XL", tshirtToAPI("m4XL"))
	assert.Equal(t, "S", tshirtToAPI("S"))

	// Translated sizes must survive a round trip in both directions.
	for _, size := range []string{"S", "M", "L", "XL", "XXL", "m3XL", "m4XL"} {
		assert.Equal(t, size, tshirtFromAPI(tshirtToAPI(size)), "frontend size %q", size)
	}
	for _, size := range []string{"S", "M", "L", "XL", "XXL", "3XL", "4XL"} {
		assert.Equal(t, size, tshirtToAPI(tshirtFromAPI(size)), "api size %q", size)
	}
}

func TestCountAsNumber(t *testing.T) {
	assert.Equal(t, 7, CountAsNumber("c7"))
	assert.Equal(t, 1, CountAsNumber("c1"))
	assert.Equal(t, 10, CountAsNumber("c10"))
	assert.Equal(t, 3, CountAsNumber("3"))
	assert.Equal(t, 0, CountAsNumber(""))
	assert.Equal(t, 0, CountAsNumber("cx"))
}

func TestEncodeCount(t *testing.T) {
	assert.Equal(t, "c1", EncodeCount(1))
	assert.Equal(t, "c10", EncodeCount(10))

	for n := 1; n <= 10; n++ {
		assert.Equal(t, n, CountAsNumber(EncodeCount(n)))
	}
}

func TestSplitJoinSet(t *testing.T) {
	set := splitSet("hc,anon,terms-accepted")
	assert.True(t, set["hc"])
	assert.True(t, set["anon"])
	assert.True(t, set["terms-accepted"])
	assert.False(t, set["digi-book"])

	assert.Empty(t, splitSet(""))

	// Output is sorted regardless of input order, and false entries are
	// dropped entirely.
	joined := joinSet(map[string]bool{"terms-accepted": true, "anon": true, "hc": true, "digi-book": false})
	assert.Equal(t, "anon,hc,terms-accepted", joined)

	assert.Equal(t, "", joinSet(map[string]bool{}))
}

func TestSplitJoinNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"en", "de"}, splitNonEmpty("en,de"))
	assert.Nil(t, splitNonEmpty(""))
	assert.Equal(t, []string{"en"}, splitNonEmpty(",en,"))

	assert.Equal(t, "en,de", joinNonEmpty([]string{"en", "", "de"}))
	assert.Equal(t, "", joinNonEmpty(nil))
}
