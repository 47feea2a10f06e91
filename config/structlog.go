package config

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/golang/glog"
)

type logMsg func(string, ...interface{})

var mapregex = regexp.MustCompile(`mapstructure:"([^"]+)"`)
var blocklistregexp = []*regexp.Regexp{
	regexp.MustCompile("password"),
	regexp.MustCompile("username"),
	regexp.MustCompile("secret"),
	regexp.MustCompile("token"),
}

// logGeneral will log nearly any sort of value, but requires a prefix string.
func logGeneral(v reflect.Value, prefix string) {
	logGeneralWithLogger(v, prefix, glog.Infof)
}

func logGeneralWithLogger(v reflect.Value, prefix string, logger logMsg) {
	switch v.Kind() {
	case reflect.Struct:
		logStructWithLogger(v, prefix, logger)
	case reflect.Map:
		logMapWithLogger(v, prefix, logger)
	case reflect.Array, reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			logGeneralWithLogger(v.Index(i), fmt.Sprintf("%s[%d]", prefix, i), logger)
		}
	case reflect.Bool:
		logger("%s: %t", prefix, v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		logger("%s: %d", prefix, v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		logger("%s: %d", prefix, v.Uint())
	case reflect.Float32, reflect.Float64:
		logger("%s: %f", prefix, v.Float())
	case reflect.String:
		logger("%s: %s", prefix, redactURL(v.String()))
	default:
		logger("%s: ((%s))", prefix, v.Kind().String())
	}
}

func logStructWithLogger(v reflect.Value, prefix string, logger logMsg) {
	if v.Kind() != reflect.Struct {
		glog.Fatalf("logStruct called on type %s, which is not a struct!", v.Type().String())
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		fieldname := fieldNameByTag(t.Field(i))
		if !allowedName(fieldname) {
			logger("%s%s: <REDACTED>", prefix, fieldname)
			continue
		}
		if v.Field(i).Kind() == reflect.Struct {
			logStructWithLogger(v.Field(i), prefix+fieldname+".", logger)
		} else {
			logGeneralWithLogger(v.Field(i), prefix+fieldname, logger)
		}
	}
}

func logMapWithLogger(v reflect.Value, prefix string, logger logMsg) {
	if v.Kind() != reflect.Map {
		glog.Fatalf("logMap called on type %s, which is not a map!", v.Type().String())
	}
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
	})
	for _, k := range keys {
		if k.Kind() == reflect.String && !allowedName(k.String()) {
			logger("%s[%s]: <REDACTED>", prefix, k.String())
		} else {
			logGeneralWithLogger(v.MapIndex(k), fmt.Sprintf("%s[%s]", prefix, k.String()), logger)
		}
	}
}

func fieldNameByTag(f reflect.StructField) string {
	match := mapregex.FindStringSubmatch(string(f.Tag))
	if match == nil || len(match) < 2 {
		return "((" + f.Name + "))"
	}
	return match[1]
}

func allowedName(name string) bool {
	for _, r := range blocklistregexp {
		if r.MatchString(name) {
			return false
		}
	}
	return true
}

// redactURL hides the credentials of URL valued settings such as metrics.influxdb.host.
func redactURL(value string) string {
	if !strings.Contains(value, "@") {
		return value
	}
	u, err := url.Parse(value)
	if err != nil || u.User == nil {
		return value
	}
	return u.Redacted()
}
