package rp

import "time"

const (
	MinHP     = 0
	MaxHP     = 150
	DefaultHP = 100

	// HealCooldown is the minimum interval between beneficial actions
	// initiated by the same user.
	HealCooldown = 30 * time.Minute

	// RecoveryWindow is how long an incapacitated user waits before the
	// automatic heal is granted.
	RecoveryWindow = 10 * time.Minute

	// RecoveryAmount is the HP granted by an automatic or catch-up recovery.
	RecoveryAmount = 25

	DefaultSweepInterval = time.Minute

	// DefaultFinishingAction is the one hostile action allowed against an
	// already-incapacitated target.
	DefaultFinishingAction = "hex"
)

func ClampHP(hp int) int {
	if hp < MinHP {
		return MinHP
	}
	if hp > MaxHP {
		return MaxHP
	}
	return hp
}
