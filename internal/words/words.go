package words

import "math/rand"

// Pool is a catalog of candidate secret words.
type Pool struct {
	words []string
}

// NewPool builds a pool from an explicit word list. An empty list falls
// back to the built-in catalog.
func NewPool(list ...string) *Pool {
	if len(list) == 0 {
		list = catalog
	}
	return &Pool{words: list}
}

// Pick returns a uniformly random word from the pool.
func (p *Pool) Pick() string {
	return p.words[rand.Intn(len(p.words))]
}

// Size reports how many words the pool holds.
func (p *Pool) Size() int {
	return len(p.words)
}

var catalog = []string{
	// Animals
	"dog", "cat", "elephant", "lion", "zebra", "giraffe", "monkey", "panda",
	"bear", "rabbit", "horse", "cow", "pig", "sheep", "snake", "frog",
	"turtle", "crocodile", "kangaroo", "bat", "owl", "eagle", "parrot",
	"penguin", "chicken", "fish", "whale", "shark", "dolphin", "crab",
	"octopus", "jellyfish", "bee", "butterfly", "spider", "snail", "camel",

	// Food & drink
	"apple", "banana", "orange", "grapes", "watermelon", "strawberry",
	"cherry", "pineapple", "coconut", "carrot", "broccoli", "corn",
	"pumpkin", "mushroom", "pizza", "burger", "sandwich", "cake", "cookie",
	"donut", "bread", "fries", "hotdog", "sushi", "taco", "cheese", "egg",
	"coffee", "ice cream",

	// Household & objects
	"chair", "table", "bed", "couch", "lamp", "clock", "mirror", "door",
	"window", "key", "lock", "book", "pen", "pencil", "scissors", "broom",
	"toothbrush", "soap", "towel", "plate", "fork", "spoon", "knife", "cup",
	"bottle", "bomb", "candle",

	// Technology & tools
	"phone", "camera", "computer", "laptop", "keyboard", "mouse", "television",
	"remote", "headphones", "microphone", "light bulb", "battery", "hammer",
	"screwdriver", "wrench", "saw", "ladder", "paint brush",

	// Transportation
	"car", "bus", "truck", "train", "boat", "ship", "airplane", "helicopter",
	"bicycle", "motorbike", "submarine", "rocket", "ambulance", "fire truck",
	"police car", "skateboard", "hot air balloon", "tractor",

	// Nature & places
	"tree", "flower", "sun", "moon", "star", "rainbow", "cloud", "rain",
	"snowflake", "mountain", "volcano", "ocean", "wave", "beach", "island",
	"cave", "river", "house", "castle", "bridge", "tent", "igloo", "pyramid",
	"barn",

	// Clothing & wearables
	"shirt", "pants", "jacket", "dress", "skirt", "socks", "shoes", "boots",
	"hat", "tie", "gloves", "scarf", "helmet", "glasses", "watch", "ring",
	"necklace", "crown", "mask", "umbrella",

	// Misc & fantasy
	"dragon", "unicorn", "robot", "alien", "ghost", "monster", "knight",
	"sword", "shield", "wand", "pirate", "map", "treasure chest", "anchor",
	"guitar", "drum", "trumpet", "trophy", "medal", "ball", "goal", "kite",
	"balloon", "gift", "flag", "dice", "puzzle piece",
}
