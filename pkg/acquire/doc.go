// Package acquire obtains the archive bytes for one dependency coordinate.
//
// # State Machine
//
// Each [Acquirer.Acquire] call walks:
//
//	CheckLocalMain ──found──▶ Resolved (primary mode)
//	      │
//	CheckLocalSources ──found──▶ Resolved (sources mode)
//	      │
//	    Decide ──offline──▶ Blocked
//	      │
//	      ├─ sources / main / both ──▶ Download ──▶ Resolved
//	      ├─ skip ──▶ Skipped
//	      └─ offline ──▶ OfflineFallback ──▶ Blocked
//
// Decide asks a [DecisionProvider]. Every download needs its own
// confirmation; a declined confirmation aborts that download only. Choosing
// offline sets the acquirer's offline flag, which blocks this and every later
// coordinate that is not available locally until [Acquirer.SetOffline] clears
// it. Prompts are serialized: only one question is outstanding at a time.
//
// # Sidecars
//
// After the primary archive is resolved the acquirer also tries to obtain the
// sources archive (unless it is already the primary) and the javadoc archive,
// locally first and then remotely unless offline. These attempts never affect
// the result; failures are logged at debug level.
//
// Every download is written to the local repository under the standard
// layout, so later runs resolve locally.
package acquire
