// Package wizard holds the stepped form controller used by every data-entry flow
// in haven, plus the tab cursor used by the dashboard.
//
// A Wizard walks a fixed list of Steps. Field edits go into a flat Fields map
// (last write wins); each Step carries a Validator that gates Next. On the final
// step Submit turns the accumulated fields into the wizard's typed record and hands
// it to the Persister supplied by the caller. A failed submit leaves the wizard
// exactly where it was so the user can retry.
package wizard
