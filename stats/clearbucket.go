package stats

const (
	maxLutClear   int = 100
	maxCheckClear int = 200
)

// ClearBuckets
//
// 用來快速定位單局消除數 -> DistRecord 位置 O(1)
//
// 請勿修改預設值
//   - clear區間: 消除數區間 [0,0], (0,3), [3,5), ..., [100,200), [200, +inf)
type ClearBuckets struct {
	clearBucket    []int
	clearBucketStr []string
	bucket         *ClearBucket
}

type ClearBucket struct {
	maxCheckClear      int
	lutMaxClear        int
	clearBucketByCount []int
	clearBucketLUT     []int
	justOverIdx        int
	maxIdx             int
}

// Buckets
//
// 用來快速定位單局消除數 -> DistRecord 位置 O(1)
//
// 請勿修改預設值
//   - clear區間: 消除數區間 [0,0], (0,3), [3,5), ..., [100,200), [200, +inf)
var Buckets *ClearBuckets = &ClearBuckets{
	clearBucket:    []int{0, 3, 5, 10, 20, 30, 50, 100, 200},
	clearBucketStr: []string{"[0,0]", "(0,3)", "[3,5)", "[5,10)", "[10,20)", "[20,30)", "[30,50)", "[50,100)", "[100,200)", "[200,+inf)"},
	bucket:         nil,
}

func (b *ClearBuckets) ClearBucketStr() []string {
	return b.clearBucketStr
}

func (b *ClearBuckets) Get() *ClearBucket {
	if b.bucket == nil {
		b.bucket = b.buildBucket()
	}
	return b.bucket
}

func (b *ClearBuckets) buildBucket() *ClearBucket {
	// LUT 只建到倒數第二個邊界，更高的值走 justOverIdx / maxIdx 分流
	bounds := make([]int, len(b.clearBucket))
	copy(bounds, b.clearBucket)

	lut := make([]int, maxLutClear) // lut[cleared] = idx

	// 由 (0,3) 這個區間開始
	idx := 1
	last := len(bounds) - 1

	lut[0] = 0
	for i := 1; i < maxLutClear; i++ {
		// 僅在還有更高邊界時才前進 idx，避免越界讀取
		for idx < last && i >= bounds[idx] {
			idx++
		}
		lut[i] = idx
	}

	return &ClearBucket{
		maxCheckClear:      maxCheckClear,
		lutMaxClear:        maxLutClear,
		clearBucketByCount: bounds,
		clearBucketLUT:     lut,
		justOverIdx:        len(bounds) - 1,
		maxIdx:             len(bounds),
	}
}

func (cb *ClearBucket) Index(cleared int) int {
	if cleared >= cb.lutMaxClear {
		if cleared >= cb.maxCheckClear {
			return cb.maxIdx
		}
		return cb.justOverIdx
	}
	return cb.clearBucketLUT[cleared]
}

// 連鎖步數分桶：0..7 各一桶，8 步以上合併
const cascadeTrack = 8

var cascadeBucketStr = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8+"}

func CascadeBucketStr() []string {
	return cascadeBucketStr
}

// CascadeIndex 回傳連鎖步數對應的分桶位置。
func CascadeIndex(cascades int) int {
	if cascades >= cascadeTrack {
		return cascadeTrack
	}
	if cascades < 0 {
		return 0
	}
	return cascades
}
