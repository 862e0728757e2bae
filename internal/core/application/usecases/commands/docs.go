// Package commands contains the validated inputs of every state-changing operation.
// Each command is built through its constructor, which applies defaults and rejects bad
// input up front, and carries a constructor guard so services can refuse zero values.
package commands
