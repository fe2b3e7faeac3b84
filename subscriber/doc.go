/*
Package subscriber delivers entity lifecycle events.

A Subscriber declares the entity type it listens to and receives an
Event around every repository write (before-insert, after-insert,
before-update, after-update, before-remove, after-remove) and after
every load. Before hooks run ahead of the driver call and may veto it
by returning an error; they receive the entity pointer and may adjust
it before it is persisted.

Each repository owns a Broadcaster holding the snapshot of the
connection's subscribers taken when the repository was created.
Registering further subscribers on the connection does not alter
existing broadcasters. Dispatch delivers only to snapshot subscribers
whose ListenTo matches the broadcaster's target or is the zero value.
*/
package subscriber
