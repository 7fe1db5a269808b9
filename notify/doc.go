// Package notify contains core.Notifier implementations: the presentation
// side of cart outcomes. Toast renders localized user-facing messages for
// failed operations, Multi fans a result out to several notifiers, and the
// notify/amqp sub-package publishes every outcome as an event.
package notify
