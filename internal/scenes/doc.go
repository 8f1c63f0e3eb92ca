// Package scenes reads user-authored scene sidecars describing intervals to
// excise, blur, or black out.
//
// A sidecar sits next to its video as <name>.scenes.yaml. A missing sidecar
// means the item has no scene zones; an unparseable one fails the item. Bad
// individual entries are dropped and reported while the rest proceed.
package scenes
