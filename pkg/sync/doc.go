/*
The sync package implements the script synchronization engine. It deploys
script sources to the per-user directories of the scripting host, applying
the override rules between global and private scripts.

There are two types of scripts:
1) Global scripts -- These live at the root of the source tree, and are
   deployed to every known user.
2) Private scripts -- These live in a per-user subdirectory, and are deployed
   only to that user. A private script shadows the global script of the same
   logical name, so the global variant is never deployed to the overriding
   user.

A script's logical name is its file name without the extension. The shadowing
relationship is captured in a SkipMap, which is rebuilt from the source tree
on every push and on every global change event. The SkipMap must be complete
before a global script is deployed; a partial map would deploy globals over
private overrides.

Users are discovered from the key files at the deployment root unless an
explicit user filter is given. The user set is resolved fresh per operation
and passed down, never cached across calls.
*/
package sync
