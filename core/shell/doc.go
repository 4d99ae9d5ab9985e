// Package shell reads command lines and executes them.
//
// Loosely following
// https://pubs.opengroup.org/onlinepubs/9699919799/utilities/V3_chap02.html
// the shell:
//
//  1. Reads its input from a terminal through a line editor, or line by line
//     from any other reader.
//
//  2. Breaks the input into tokens on whitespace. There is no quoting, and
//     no expansions are performed.
//
//  3. Parses the tokens into a pipeline: stages separated by '|', an
//     optional '&' to run in the background, and '<', '>', '>>' redirections
//     which are removed from the argument lists.
//
//  4. Replaces the first word of every stage that names an alias with its
//     value.
//
//  5. Executes a builtin or a program found on PATH for every stage, giving
//     it the remaining words as arguments.
//
//  6. Waits for foreground commands to complete, background commands are
//     reported as done before the next prompt.
package shell
