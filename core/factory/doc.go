// Package factory provides a small generic registry used to instantiate
// modules from configuration, such as the metrics sinks listed under
// metrics.sinks. A module is a type string plus a map of raw settings;
// its factory decodes the settings into a typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[metrics.Sink]()
//	_ = reg.Register("mqtt", func(conf map[string]any) (metrics.Sink, error) {
//	    var c mqtt.Config
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return mqtt.NewBalancePublisher(c)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "mqtt", Conf: map[string]any{"broker": "tcp://van:1883"}})
package factory
