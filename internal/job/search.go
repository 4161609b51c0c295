package job

// binarySearch returns the index of target in the ascending slice vals, or
// -1 when absent. Bounds are inclusive and the midpoint is computed as
// low + (high-low)/2 to stay clear of overflow.
func binarySearch(vals []int, target int) int {
	low, high := 0, len(vals)-1

	for low <= high {
		mid := low + (high-low)/2
		switch {
		case vals[mid] == target:
			return mid
		case vals[mid] < target:
			low = mid + 1
		default:
			high = mid - 1
		}
	}

	return -1
}
