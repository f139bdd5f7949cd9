package engine

// Sentences is the fixed typing queue. SentenceIndex wraps modulo its
// length, so a round can outlast the list.
var Sentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Pack my box with five dozen liquor jugs.",
	"How vexingly quick daft zebras jump!",
	"Sphinx of black quartz, judge my vow.",
	"The five boxing wizards jump quickly.",
	"Jackdaws love my big sphinx of quartz.",
	"Crazy Fredrick bought many very exquisite opal jewels.",
	"We promptly judged antique ivory buckles for the next prize.",
	"A wizard's job is to vex chumps quickly in fog.",
	"Amazingly few discotheques provide jukeboxes.",
	"Heavy boxes perform quick waltzes and jigs.",
	"Jinxed wizards pluck ivy from the big quilt.",
	"The jay, pig, fox, zebra and my wolves quack!",
	"Quick zephyrs blow, vexing daft Jim.",
	"Grumpy wizards make toxic brew for the evil queen and jack.",
}
