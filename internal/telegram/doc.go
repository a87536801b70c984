// Package telegram delivers homeworkbot messages to a Telegram chat.
//
// [Notifier] wraps exactly one Bot API sendMessage call per [Notifier.Send].
// Every failure is returned marked with [ErrDelivery]; nothing panics past
// the Send boundary.
package telegram
