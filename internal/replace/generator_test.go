package replace

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Jelly-Pudding/ereddicator/internal/config"
)

func TestNext_CustomText(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	cfg := &config.Config{ReplacementText: "goodbye"}

	for i := 0; i < 20; i++ {
		assert.Equal(t, "goodbye", gen.Next(cfg))
	}
}

func TestNext_FillerPoolWhenNoCustomText(t *testing.T) {
	gen := NewWithSource(rand.NewSource(1))
	cfg := &config.Config{}

	for i := 0; i < 50; i++ {
		assert.Contains(t, fillerPhrases, gen.Next(cfg))
	}
}

func TestNext_AdvertiseCoinFlip(t *testing.T) {
	gen := NewWithSource(rand.NewSource(42))
	cfg := &config.Config{Advertise: true, ReplacementText: "goodbye"}

	ads := 0
	const draws = 1000
	for i := 0; i < draws; i++ {
		text := gen.Next(cfg)
		if strings.Contains(text, "ereddicator") {
			ads++
		} else {
			assert.Equal(t, "goodbye", text)
		}
	}
	// p=0.5; anywhere near half is fine for a fixed seed.
	assert.Greater(t, ads, draws/3)
	assert.Less(t, ads, 2*draws/3)
}

func TestNext_AdvertiseDisabledNeverAdvertises(t *testing.T) {
	gen := NewWithSource(rand.NewSource(42))
	cfg := &config.Config{ReplacementText: "goodbye"}

	for i := 0; i < 200; i++ {
		assert.Equal(t, "goodbye", gen.Next(cfg))
	}
}

func TestNext_RandomKeywordDrawsGibberish(t *testing.T) {
	gen := NewWithSource(rand.NewSource(7))
	cfg := &config.Config{ReplacementText: "random"}

	a := gen.Next(cfg)
	b := gen.Next(cfg)
	assert.NotEqual(t, "random", a)
	assert.NotEqual(t, a, b, "successive draws should differ")
}

func TestRandomText_Shape(t *testing.T) {
	gen := NewWithSource(rand.NewSource(3))

	for i := 0; i < 100; i++ {
		words := strings.Fields(gen.RandomText())
		assert.GreaterOrEqual(t, len(words), 2)
		assert.LessOrEqual(t, len(words), 17)
		for _, w := range words {
			assert.GreaterOrEqual(t, len(w), 3)
			assert.LessOrEqual(t, len(w), 12)
			for _, r := range w {
				assert.True(t, r >= 'a' && r <= 'z')
			}
		}
	}
}
