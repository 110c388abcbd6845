package txmanager

type Options struct {
	//事务开始时间的来源，只用于比较新旧
	Clock Clock

	//事务结束后的记录
	Recorder TXRecorder
}

type Option func(*Options)

func WithClock(clock Clock) Option {
	return func(options *Options) {
		options.Clock = clock
	}
}

func WithRecorder(recorder TXRecorder) Option {
	return func(options *Options) {
		options.Recorder = recorder
	}
}

func repair(o *Options) {
	if o.Clock == nil {
		o.Clock = SystemClock{}
	}
	if o.Recorder == nil {
		o.Recorder = nopRecorder{}
	}
}
