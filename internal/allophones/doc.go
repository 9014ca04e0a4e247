// Package allophones provides phoneme inventories and splits phone strings
// into inventory symbols. Inventories are read from allophone XML or YAML, and
// an en-US and a German SAMPA set are built in.
package allophones
