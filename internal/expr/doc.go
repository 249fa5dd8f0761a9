// Package expr compiles the script's integer expressions into postfix
// statements and evaluates them.
//
// Compilation runs in three steps. The tokenizer scans operators (symbolic
// or mnemonic, longest match first), variable names, decimal literals,
// parentheses and {item} references. A shunting-yard pass with an 11-level
// priority table converts the token list to postfix order, and a final
// stack-balance replay guarantees that evaluation can never underflow.
//
// Evaluation is a stack machine over int64 values. Variables and inventory
// state are supplied by an Env; items evaluate to 0 (absent), 1 (present) or
// 2 (present and selected).
package expr
