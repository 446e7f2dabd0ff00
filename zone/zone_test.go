package zone

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamed(t *testing.T) {
	for _, s := range []string{"", "local", "Local", " LOCAL "} {
		z, err := Parse(s)
		require.NoError(t, err)
		assert.True(t, z.IsLocal())
		assert.Equal(t, time.Local, z.Location())
		assert.Equal(t, "Local", z.String())
	}

	for _, s := range []string{"UTC", "utc", "Z"} {
		z, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, time.UTC, z.Location())
		assert.Equal(t, "UTC", z.String())
	}

	z, err := Parse("Asia/Shanghai")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Shanghai", z.String())
	_, offset := time.Unix(1702621996, 0).In(z.Location()).Zone()
	assert.Equal(t, 8*3600, offset)

	_, err = Parse("Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestParseOffset(t *testing.T) {
	cases := map[string]struct {
		name   string
		offset int
	}{
		"+08:00": {"+08:00", 8 * 3600},
		"+8":     {"+08:00", 8 * 3600},
		"-0530":  {"-05:30", -(5*3600 + 30*60)},
		"-5:45":  {"-05:45", -(5*3600 + 45*60)},
		"+14":    {"+14:00", 14 * 3600},
		"-00:00": {"+00:00", 0},
	}
	for in, want := range cases {
		z, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want.name, z.String(), in)
		_, offset := time.Unix(0, 0).In(z.Location()).Zone()
		assert.Equal(t, want.offset, offset, in)
	}

	for _, in := range []string{"+15", "+08:60", "+abc", "-123", "+"} {
		_, err := Parse(in)
		assert.Error(t, err, in)
	}
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, UTC, MustParse("utc"))
	assert.Panics(t, func() { MustParse("+99") })
}

func TestFlagValue(t *testing.T) {
	var z Zone
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.VarP(&z, "timezone", "z", "zone")

	assert.Equal(t, "Local", fs.Lookup("timezone").DefValue)
	assert.Equal(t, "zone", fs.Lookup("timezone").Value.Type())

	require.NoError(t, fs.Parse([]string{"-z", "+08:00"}))
	assert.Equal(t, "+08:00", z.String())

	assert.Error(t, fs.Parse([]string{"--timezone", "nowhere"}))
}

func TestText(t *testing.T) {
	var z Zone
	require.NoError(t, z.UnmarshalText([]byte("Europe/Berlin")))
	text, err := z.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", string(text))

	assert.Error(t, z.UnmarshalText([]byte("bogus")))
	assert.Equal(t, "Europe/Berlin", z.String())
}
