// Package unit defines the processing units of the modular synthesizer and
// the capability contract the router wires them through.
//
// Every unit is built on signalgraph nodes. What a unit can take part in is
// declared statically by the interfaces it implements:
//
//   - AudioInput / AudioOutput: continuous signal ports.
//   - Parameterized: named continuous parameters (CV targets).
//   - TriggerReceiver / TriggerSubscriber: gate events.
//   - NoteReceiver / NoteSubscriber: discrete pitch events.
//   - Ranged: the normalized domain of a CV output.
//
// CapabilitiesOf folds these into a Capability set. Event subscribers own
// their fan-out lists; a new unit always starts with empty lists.
package unit
