package yolox

// COCOClasses are the 80 COCO class labels in YOLOX head order. Index ==
// class id.
var COCOClasses = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat", "traffic light",
	"fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket", "bottle",
	"wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple", "sandwich", "orange",
	"broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch", "potted plant", "bed",
	"dining table", "toilet", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone", "microwave", "oven",
	"toaster", "sink", "refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier", "toothbrush",
}

// UnknownLabel is assigned to detections whose class id falls outside the
// configured class table. An out-of-range id is a labeling gap, not an
// error.
const UnknownLabel = "unknown"

// Label resolves a class id against a class table.
//
// Arguments:
// - classes: The class table, index == class id.
// - id: The class id to resolve.
//
// Returns:
// - The label for the id, or UnknownLabel when the id is out of range.
//
// @example
// Label(COCOClasses, 0)   // "person"
// Label(COCOClasses, 999) // "unknown"
func Label(classes []string, id int) string {
	if id < 0 || id >= len(classes) {
		return UnknownLabel
	}
	return classes[id]
}

// GetClassMapping returns a mapping of class labels to their ids.
func GetClassMapping(classes []string) map[string]int {
	mapping := make(map[string]int, len(classes))
	for i, label := range classes {
		mapping[label] = i
	}
	return mapping
}
