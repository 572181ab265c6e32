package internal

import (
	"math/rand"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/viper"
	"github.com/wal-g/tracelog"
)

type ProfileStopper interface {
	Stop()
}

var profileModes = map[string]func(*profile.Profile){
	"cpu":            profile.CPUProfile,
	"mem":            profile.MemProfile,
	"mutex":          profile.MutexProfile,
	"block":          profile.BlockProfile,
	"threadcreation": profile.ThreadcreationProfile,
	"trace":          profile.TraceProfile,
	"goroutine":      profile.GoroutineProfile,
}

// Profile starts profiling for a share of invocations given by PROFILE_SAMPLING_RATIO.
// It returns nil when this invocation is not sampled.
func Profile() (ProfileStopper, error) {
	if !viper.IsSet(ProfileSamplingRatio) {
		return nil, nil
	}

	samplingRatio := viper.GetFloat64(ProfileSamplingRatio)
	random := rand.New(rand.NewSource(time.Now().UnixNano()))
	if random.Float64() >= samplingRatio {
		return nil, nil
	}

	opts := []func(*profile.Profile){profile.Quiet}
	if profileMode := viper.GetString(ProfileMode); profileMode != "" {
		mode, ok := profileModes[profileMode]
		if !ok {
			tracelog.WarningLogger.Printf("Unknown %s '%s', falling back to cpu\n", ProfileMode, profileMode)
		} else {
			opts = append(opts, mode)
		}
	}

	if profilePath := viper.GetString(ProfilePath); profilePath != "" {
		opts = append(opts, profile.ProfilePath(profilePath))
	}

	return profile.Start(opts...), nil
}
