/* Package main: stepforth, a single-stepped FORTH tracer

FORTH is a language mostly familiar to users of "small" machines: programs
are built by defining _words_ out of earlier words, all the way down to a
handful of machine primitives, and the runtime is two stacks and a flat core
memory. stepforth implements a minimal subset of that model, small enough to
watch: it compiles a source program into the bytecode of a two-stack machine
and then single-steps it, emitting one trace page per step showing the
current word's disassembly, the data stack, and the return stack.

The pipeline has three parts. The tokenizer splits the source on whitespace
and classifies signed decimal literals. The compiler makes one pass, sending
colon definitions into core memory and top-level fragments into a separate
interpreting buffer; compile-time words like if and loop run as macros that
emit and patch jumps. At end of input the interpreting buffer is spliced
into core under a synthetic entry word, jump targets are relocated, and the
machine runs that word until its final ret underflows the empty return
stack.

The dictionary is not a separate structure: it is the sequence of name
markers embedded in core memory between word bodies, searched backward so
redefinition shadows. A hand-assembled base ROM of primitive words (dup,
swap, @, !, arithmetic, the loop helpers) occupies the bottom of core before
any user code.

Accepted words: : ; exit if else then begin until repeat do loop +loop
variable dup drop swap over @ ! + - = > < not and or i i' j >r r>

Run it:

	stepforth -prog ': double dup + ; 3 double'

See the -trace, -debug, and -dump flags for progressively noisier views of
the machine.
*/
package main
