// pkg/craft/resolver.go
package craft

import (
	"log/slog"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-craft/pkg/event"
	"github.com/opd-ai/go-craft/pkg/physics"
	"github.com/opd-ai/go-craft/pkg/timer"
)

// HandleContact resolves one contact. Trigger and solid events take separate paths.
func (c *Craft) HandleContact(ev ContactEvent) Outcome {
	if ev.Kind == ContactTrigger {
		return c.HandleTrigger(ev)
	}
	return c.HandleCollision(ev)
}

// HandleTrigger resolves an overlap event. Only shield pickups react; each pickup
// object is consumed once.
func (c *Craft) HandleTrigger(ev ContactEvent) Outcome {
	outcome := Ignored
	if !c.destroyed && ev.Category == Shield && !ev.Source.Destroyed() {
		c.pickUpShield(ev)
		outcome = ShieldPickup
	}
	c.report(ev, outcome)
	return outcome
}

// HandleCollision resolves a solid contact
func (c *Craft) HandleCollision(ev ContactEvent) Outcome {
	outcome := c.classify(ev)
	switch outcome {
	case ShieldAbsorbed:
		c.absorbAndBounce(ev)
	case Success:
		c.succeed()
	case Crash:
		c.crash()
	}
	c.report(ev, outcome)
	return outcome
}

func (c *Craft) classify(ev ContactEvent) Outcome {
	if c.destroyed || !c.controllable || !c.collidable {
		return Ignored
	}
	if c.hasShield && !ev.Category.exempt() {
		return ShieldAbsorbed
	}

	switch ev.Category {
	case Friendly:
		return FriendlyContact
	case Finish:
		return Success
	default:
		if c.invincible {
			return Ignored
		}
		return Crash
	}
}

func (c *Craft) report(ev ContactEvent, outcome Outcome) {
	level := slog.LevelInfo
	if outcome == Ignored || outcome == FriendlyContact {
		level = slog.LevelDebug
	}
	c.logger.LogWithContext(c.ctx, level, "contact resolved",
		"craft_id", c.ID(),
		"object_id", ev.sourceID(),
		"kind", ev.Kind.String(),
		"category", ev.Category.String(),
		"outcome", outcome.String(),
	)

	if c.bus != nil {
		c.bus.Publish(event.NewContactEvent(c, c.ID(), ev.sourceID(), ev.Category.String(), outcome.String()))
	}
}

func (c *Craft) pickUpShield(ev ContactEvent) {
	c.hasShield = true
	c.deps.Shield.SetActive(true)
	c.deps.Audio.PlayAt(c.deps.Sounds.ShieldPickup, ev.Source.GetPosition(), c.settings.VolumeScale)
	c.deps.Objects.Destroy(ev.Source)
	c.publish(event.ShieldPickedUp)
}

// BounceDirection returns the world direction of a shield bounce: the body's right
// axis when the contact normal points to the body's local +X, its left axis otherwise
func BounceDirection(body Body, worldNormal mgl64.Vec3) mgl64.Vec3 {
	local := body.InverseTransformDirection(worldNormal)
	if local.X() > 0 {
		return body.Right()
	}
	return body.Right().Mul(-1)
}

func (c *Craft) absorbAndBounce(ev ContactEvent) {
	c.hasShield = false
	c.deps.Shield.SetActive(false)
	c.deps.Audio.PlayAt(c.deps.Sounds.ShieldBreak, c.deps.Shield.Position(), c.settings.VolumeScale)
	c.publish(event.ShieldAbsorbed)

	body := c.deps.Body
	body.SetConstraints(physics.ConstraintsNone)
	body.SetVelocity(mgl64.Vec3{})
	body.SetAngularVelocity(mgl64.Vec3{})

	body.AddImpulse(BounceDirection(body, ev.Normal).Mul(c.settings.ShieldBounceForce))

	local := body.InverseTransformDirection(body.Velocity())
	body.SetVelocity(body.TransformDirection(physics.KeepAxis(local, physics.AxisX)))

	body.SetConstraints(physics.FreezeRotation | physics.FreezePositionZ)

	c.controllable = false
	c.motion.FreezeControls(c.settings.FreezeDuration)

	c.startInvincibility()
	c.deps.Camera.Shake(c.settings.ShakeDuration, c.settings.ShakeMagnitude)
	c.startFreezeRecovery()
}

func (c *Craft) startInvincibility() {
	c.invincible = true
	c.publish(event.InvincibilityStarted)
	c.logger.Debug(c.ctx, "invincibility on", "craft_id", c.ID(), "duration", c.settings.InvincibilityTime)

	c.scheduler.After(timer.Invincibility, c.settings.InvincibilityTime, func() {
		c.invincible = false
		c.publish(event.InvincibilityEnded)
		c.logger.Debug(c.ctx, "invincibility off", "craft_id", c.ID())
	})
}

func (c *Craft) startFreezeRecovery() {
	c.fixedY = c.deps.Body.Position().Y()

	c.scheduler.During(timer.FreezeRecovery, c.settings.FreezeDuration,
		func(time.Duration) { c.pinHeight() },
		func() {
			c.deps.Body.SetConstraints(physics.FreezeRotation)
			c.controllable = true
			c.publish(event.ControlRestored)
			c.logger.Debug(c.ctx, "control restored", "craft_id", c.ID())
		},
	)
}

func (c *Craft) pinHeight() {
	pos := c.deps.Body.Position()
	c.deps.Body.SetPosition(physics.WithComponent(pos, physics.AxisY, c.fixedY))
}

func (c *Craft) succeed() {
	c.controllable = false
	c.deps.Locomotion.Stop()
	c.deps.Locomotion.PlayOneShot(c.deps.Sounds.Success)
	c.deps.Effects.Success.Play()
	c.motion.Disable()
	c.publish(event.LevelCompleted)

	c.scheduler.After(timer.LevelLoad, c.settings.LevelLoadDelay, c.deps.Scenes.LoadNext)
}

func (c *Craft) crash() {
	c.controllable = false
	c.deps.Locomotion.Stop()
	c.deps.Effects.Crash.Play()
	c.deps.Locomotion.PlayOneShot(c.deps.Sounds.Crash)
	c.motion.Disable()
	c.publish(event.CraftCrashed)

	c.scheduler.After(timer.LevelLoad, c.settings.LevelLoadDelay, c.deps.Scenes.ReloadCurrent)
}
