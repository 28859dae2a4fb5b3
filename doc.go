/*
Package avlmap provides an ordered map from unique keys to values,
stored in an AVL tree and safe for concurrent use by multiple
goroutines.

Uses

- Ordered enumeration of keys without sorting on every read

- Shared lookup tables that many goroutines read and write

- Range scans (SeekIter) over a live, mutable data set


Structure

Entries live in a height-balanced binary search tree: for every node,
the heights of its two subtrees differ by at most one, so lookups,
insertions and removals cost O(log n). Each node is owned by exactly one
parent (or by the map's root slot). Nodes are never shared between maps,
and Clone copies every one of them.

Beside the tree, each map keeps a key index, an ordered set holding
exactly the tree's keys, so Size is O(1) and Keys is a single ordered
scan.

Balance flattens the tree and rebuilds it by repeated median
selection, producing a tree of minimal height. Heights are recomputed
during the rebuild, so the result still satisfies the AVL invariant and
Verify.

Concurrency

Every Map has one mutex. Each exported method acquires it once, holds
it for the whole call, and releases it on every return path. Calls
against one Map are therefore serialized in lock-acquisition order.
There is no fairness guarantee, no timeout and no try-lock.

Long operations (Balance, Fprint, Keys, Iter, Digest, Clone) hold the
lock for their full O(n) duration and block other callers meanwhile.
DiffIter copies each map's entries under that map's lock and compares
the copies with no lock held.

Sequences of calls are not atomic: a Contains followed by an Insert
can race with another goroutine's Remove. Use Upsert or Update when a
read-modify-write of a single key must be atomic.

A Map must not be copied by value after first use; use Clone for an
independent deep copy, or Move to hand the contents to a new Map in
constant time.
*/
package avlmap
