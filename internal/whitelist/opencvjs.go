package whitelist

// Imgproc lists the image processing functions the face detector calls
func Imgproc() Group {
	return NewGroup("imgproc", Classes{
		FreeFunctions: {
			"cvtColor",
			"pyrDown",
			"resize",
		},
	})
}

// Objdetect lists the cascade classifier API used for face and eye detection
func Objdetect() Group {
	return NewGroup("objdetect", Classes{
		FreeFunctions:       {"groupRectangles"},
		"CascadeClassifier": {"load", "detectMultiScale2", "CascadeClassifier", "detectMultiScale3", "empty", "detectMultiScale"},
	})
}

// OpenCVJS returns the whitelist of the OpenCV.js build shipped with the
// face detection front end.
func OpenCVJS() WhiteList {
	wl, err := MakeWhiteList(Imgproc(), Objdetect())
	if err != nil {
		panic(err)
	}
	return wl
}
